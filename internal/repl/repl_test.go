// SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/atomstore"
)

const twoStmtSrc = `fn f(a: U64) -> U64 {
	let x = a + 1;
	return x;
}`

func loadStore(t *testing.T) *atomstore.Store {
	t.Helper()
	s, err := atomstore.Load(map[string]string{"f.rp": twoStmtSrc})
	assert.NoError(t, err)
	return s
}

func run(t *testing.T, store *atomstore.Store, script string) string {
	t.Helper()
	var out bytes.Buffer
	Start(strings.NewReader(script), &out, store)
	return out.String()
}

func TestSidsListsEveryNumberedStatement(t *testing.T) {
	out := run(t, loadStore(t), "sids\nquit\n")
	assert.Contains(t, out, "f.rp")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
}

func TestPrintShowsUnmodifiedSourceBeforeAnyEdit(t *testing.T) {
	out := run(t, loadStore(t), "print\nquit\n")
	assert.Contains(t, out, "f.rp")
	assert.Contains(t, out, "let x")
}

func TestHistoryStartsEmpty(t *testing.T) {
	out := run(t, loadStore(t), "history\nquit\n")
	assert.Contains(t, out, "(empty)")
}

func TestDeleteAppendsToHistoryAndChangesPrintedSource(t *testing.T) {
	out := run(t, loadStore(t), "delete 1\nhistory\nprint\nquit\n")
	assert.Contains(t, out, "ok")
	assert.NotContains(t, out, "(empty)")
	assert.NotContains(t, out, "let x")
}

func TestResetClearsAccumulatedHistory(t *testing.T) {
	out := run(t, loadStore(t), "delete 1\nreset\nhistory\nquit\n")
	assert.Contains(t, out, "history cleared")
	assert.Contains(t, out, "(empty)")
}

func TestDeleteWithWrongArgCountReportsErrorInsteadOfApplying(t *testing.T) {
	out := run(t, loadStore(t), "delete 1 2\nhistory\nquit\n")
	assert.Contains(t, out, "expected 1 sid argument(s), got 2")
	assert.Contains(t, out, "(empty)")
}

func TestMalformedSidReportsErrorInsteadOfPanicking(t *testing.T) {
	out := run(t, loadStore(t), "delete abc\nquit\n")
	assert.Contains(t, out, "malformed sid")
}

func TestUnrecognizedCommandIsReportedAndLoopContinues(t *testing.T) {
	out := run(t, loadStore(t), "bogus\nsids\nquit\n")
	assert.Contains(t, out, `unrecognized command "bogus"`)
	assert.Contains(t, out, "f.rp")
}

func TestBlankLinesArePromptedPastWithoutError(t *testing.T) {
	out := run(t, loadStore(t), "\n\nquit\n")
	assert.Equal(t, strings.Count(out, Prompt), 3)
}

func TestQuitStopsBeforeConsumingLaterInput(t *testing.T) {
	out := run(t, loadStore(t), "quit\nsids\n")
	assert.NotContains(t, out, "f.rp")
}
