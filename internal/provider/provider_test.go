package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/ast"
)

func TestDefaultParsesAndPrints(t *testing.T) {
	var p ASTProvider = Default{}
	f, err := p.Parse("f.rp", `fn f(a: U64) -> U64 { return a; }`)
	assert.NoError(t, err)
	assert.Equal(t, "f.rp", f.Name)

	var stmts []ast.Stmt
	p.VisitStatements(f, func(_ *ast.Function, s ast.Stmt) { stmts = append(stmts, s) })
	assert.Len(t, stmts, 1)

	printed := p.PrettyPrint(f)
	assert.Contains(t, printed, "return a;")
}

func TestDefaultCloneIsDeep(t *testing.T) {
	p := Default{}
	f, err := p.Parse("f.rp", `fn f(a: U64) -> U64 { let x = a + 1; return x; }`)
	assert.NoError(t, err)

	var original ast.Stmt
	p.VisitStatements(f, func(_ *ast.Function, s ast.Stmt) {
		if original == nil {
			original = s
		}
	})

	clone := p.CloneStmt(original)
	assert.NotSame(t, original, clone)
	assert.Equal(t, original.String(), clone.String())
}
