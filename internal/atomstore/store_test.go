package atomstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/ast"
	"repairengine/internal/provider"
)

// countingProvider wraps provider.Default, counting Parse calls so a test
// can confirm LoadWithProvider actually calls through the interface rather
// than the concrete parser package.
type countingProvider struct {
	provider.Default
	parses int
}

func (p *countingProvider) Parse(filename, source string) (*ast.File, error) {
	p.parses++
	return p.Default.Parse(filename, source)
}

func TestLoadNumbersMutatableStatementsOnly(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
		let x = a + 1;
		if (x > 0) {
			return x;
		} else {
			return 0;
		}
	}`
	s, err := Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)
	assert.NotNil(t, s)

	// let, if, return (then), return (else): four mutatable statements.
	assert.Equal(t, ast.Sid(4), s.MaxAtom())
	for sid := ast.Sid(1); sid <= s.MaxAtom(); sid++ {
		_, ok := s.LocationOf(sid)
		assert.True(t, ok, "sid %d should be in stmt_map", sid)
		_, ok = s.localsHave[sid]
		assert.True(t, ok, "sid %d should be in locals_have", sid)
		_, ok = s.localsUsed[sid]
		assert.True(t, ok, "sid %d should be in locals_used", sid)
	}
}

func TestInvariantUsedIsSubsetOfHavePlusGlobals(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
		let b = a + total;
		return b;
	}`
	s, err := Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)

	globals := s.Globals()
	for sid := ast.Sid(1); sid <= s.MaxAtom(); sid++ {
		used := s.LocalsUsed(sid)
		have := s.LocalsHave(sid)
		for v := range used {
			_, inHave := have[v]
			_, inGlobal := globals[v]
			assert.True(t, inHave || inGlobal, "sid %d uses var %d not in scope or globals", sid, v)
		}
	}
}

// S4: a local visible only in block B must make any donor that uses it
// ineligible at a destination in block A, unless semantic checking is off.
func TestScopeFilterAcrossBranches(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
		if (a > 0) {
			let y = a + 1;
			return y;
		} else {
			return a;
		}
	}`
	s, err := Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)

	// Order: IfStmt(1), LetStmt(2) [then, declares y], ReturnStmt(3) [then,
	// uses y], ReturnStmt(4) [else, uses only a].
	assert.Equal(t, ast.Sid(4), s.MaxAtom())

	returnY := ast.Sid(3)
	elseReturn := ast.Sid(4)

	have := s.LocalsHave(elseReturn)
	used := s.LocalsUsed(returnY)
	for v := range used {
		vi, _ := s.VarInfoOf(v)
		if vi.Name == "y" {
			_, ok := have[v]
			assert.False(t, ok, "else branch should not see `y`")
		}
	}

	candidates := []Candidate{{Sid: returnY, Weight: 1.0}}
	withScope := s.AppendSources(elseReturn, candidates, CheckScope)
	assert.Empty(t, withScope, "append_sources with semantic_check=scope must exclude the donor using y")

	withoutScope := s.AppendSources(elseReturn, candidates, CheckNone)
	assert.Len(t, withoutScope, 1, "append_sources with semantic_check=none must include it")
}

func TestSwapSourcesExcludesSelfAndLowerIDs(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
		let x = a;
		let y = a;
		return x;
	}`
	s, err := Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)

	all := []Candidate{{Sid: 1, Weight: 1}, {Sid: 2, Weight: 1}, {Sid: 3, Weight: 1}}
	swaps := s.SwapSources(2, all, CheckNone)
	for _, c := range swaps {
		assert.Greater(t, int(c.Sid), 2)
	}
}

func TestLoadSetsTheDefaultProvider(t *testing.T) {
	s, err := Load(map[string]string{"f.rp": `fn f() -> U64 { return 0; }`})
	assert.NoError(t, err)
	assert.Equal(t, provider.Default{}, s.Provider)
}

func TestLoadWithProviderParsesThroughTheGivenProviderNotTheConcreteParser(t *testing.T) {
	p := &countingProvider{}
	s, err := LoadWithProvider(map[string]string{
		"a.rp": `fn f() -> U64 { return 0; }`,
		"b.rp": `fn g() -> U64 { return 1; }`,
	}, p)
	assert.NoError(t, err)
	assert.Equal(t, 2, p.parses)
	got, ok := s.Provider.(*countingProvider)
	assert.True(t, ok)
	assert.Same(t, p, got)
}

func TestLoadRejectsEmptyManifest(t *testing.T) {
	_, err := Load(map[string]string{})
	assert.Error(t, err)
}

func TestCanonicalMapCollapsesIdenticalText(t *testing.T) {
	src := `fn f(a: U64) -> U64 {
		let x = a;
		x = a;
		x = a;
		return x;
	}`
	s, err := Load(map[string]string{"f.rp": src})
	assert.NoError(t, err)

	canon := s.BuildCanonicalMap()
	// sids 2 and 3 both print as "x = a;", so both map onto sid 2, the
	// smallest id with that text; every numbered sid has an entry.
	assert.Equal(t, ast.Sid(2), canon[2])
	assert.Equal(t, ast.Sid(2), canon[3])
	for sid := ast.Sid(1); sid <= s.MaxAtom(); sid++ {
		_, ok := canon[sid]
		assert.True(t, ok)
	}
}
