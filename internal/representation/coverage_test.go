// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/atomstore"
)

func TestInstrumentInsertsOneTraceCallPerMutatableStatement(t *testing.T) {
	store := loadThreeStmt(t)
	files, err := NewPatch(store, false).Files()
	assert.NoError(t, err)
	file := files["f.rp"]

	instrumented := Instrument(file, CoverageMode{})
	out := instrumented.String()

	assert.Equal(t, 3, strings.Count(out, "__repair_trace("))
	assert.Contains(t, out, "__repair_trace(1)")
	assert.Contains(t, out, "__repair_trace(2)")
	assert.Contains(t, out, "__repair_trace(3)")
}

func TestTraceFuncNameSelectsByMode(t *testing.T) {
	assert.Equal(t, "__repair_trace", CoverageMode{}.TraceFuncName())
	assert.Equal(t, "__repair_trace_uniq", CoverageMode{Uniq: true}.TraceFuncName())
	assert.Equal(t, "__repair_trace_mt", CoverageMode{Multithread: true}.TraceFuncName())
	assert.Equal(t, "__repair_trace_uniq_mt", CoverageMode{Uniq: true, Multithread: true}.TraceFuncName())
}

func TestInstrumentPreservesStatementOrder(t *testing.T) {
	store := loadThreeStmt(t)
	files, err := NewPatch(store, false).Files()
	assert.NoError(t, err)
	file := files["f.rp"]

	out := Instrument(file, CoverageMode{}).String()
	firstTrace := strings.Index(out, "__repair_trace(1)")
	letX := strings.Index(out, "let x")
	assert.True(t, firstTrace >= 0 && letX > firstTrace)
}

func TestInstrumentRecursesIntoNestedBlocks(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
	if (a) {
		return a;
	}
	return 0;
}`
	store, err := atomstore.Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)
	files, err := NewPatch(store, false).Files()
	assert.NoError(t, err)

	out := Instrument(files["f.rp"], CoverageMode{}).String()
	assert.Contains(t, out, "__repair_trace(1)") // the if itself
	assert.Contains(t, out, "__repair_trace(2)") // the nested return
	assert.Contains(t, out, "__repair_trace(3)") // the trailing return
}
