// SPDX-License-Identifier: Apache-2.0
package langconst

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/ast"
)

func TestIsBuiltinRecognizesEveryListedType(t *testing.T) {
	for _, name := range []string{"U8", "U16", "U32", "U64", "U128", "U256", "Bool", "Address"} {
		assert.True(t, IsBuiltin(name), name)
	}
	assert.False(t, IsBuiltin("NotAType"))
}

func TestIsIntegerExcludesBoolAndAddress(t *testing.T) {
	assert.True(t, IsInteger("U64"))
	assert.False(t, IsInteger("Bool"))
	assert.False(t, IsInteger("Address"))
}

func TestZeroLiteralPicksFalseOnlyForBool(t *testing.T) {
	assert.Equal(t, "false", ZeroLiteral("Bool"))
	assert.Equal(t, "0", ZeroLiteral("U64"))
	assert.Equal(t, "0", ZeroLiteral("Address"))
}

func TestZeroForMatchesBooleanSurfaceForm(t *testing.T) {
	boolLit := &ast.LiteralExpr{Raw: "true"}
	zero := ZeroFor(boolLit)
	lit, ok := zero.(*ast.LiteralExpr)
	assert.True(t, ok)
	assert.Equal(t, "false", lit.Raw)
}

func TestZeroForDefaultsToIntegerZero(t *testing.T) {
	ident := &ast.IdentExpr{Name: "balance"}
	zero := ZeroFor(ident)
	lit, ok := zero.(*ast.LiteralExpr)
	assert.True(t, ok)
	assert.Equal(t, "0", lit.Raw)
}
