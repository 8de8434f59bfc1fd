// SPDX-License-Identifier: Apache-2.0

// Package langconst names the default statement language's built-in types
// and the zero-value literal each denotes, the way the teacher's
// internal/builtins package names Kanso's primitive type set. Edit
// operators that replace a subatom with a constant (internal/search's
// subatom-to-constant mutation) use ZeroFor to pick a literal that at least
// matches the replaced expression's own surface syntax, rather than
// stamping every subatom with the same numeric zero regardless of whether
// it held a boolean.
package langconst

import "repairengine/internal/ast"

// Type names the built-in types this provider's type annotations allow.
type Type string

const (
	U8      Type = "U8"
	U16     Type = "U16"
	U32     Type = "U32"
	U64     Type = "U64"
	U128    Type = "U128"
	U256    Type = "U256"
	Bool    Type = "Bool"
	Address Type = "Address"
)

// Types lists every recognized built-in type name.
var Types = map[string]bool{
	string(U8): true, string(U16): true, string(U32): true, string(U64): true,
	string(U128): true, string(U256): true,
	string(Bool): true, string(Address): true,
}

// IsBuiltin reports whether name is one of the built-in types.
func IsBuiltin(name string) bool { return Types[name] }

// IsInteger reports whether name is one of the unsigned-integer types.
func IsInteger(name string) bool {
	switch Type(name) {
	case U8, U16, U32, U64, U128, U256:
		return true
	default:
		return false
	}
}

// ZeroLiteral returns the zero-value literal for a named built-in type:
// "false" for Bool, "0" for everything else (every integer width and
// Address all zero-initialize to the literal 0 in this language).
func ZeroLiteral(name string) string {
	if Type(name) == Bool {
		return "false"
	}
	return "0"
}

// ZeroFor returns a fresh zero-value literal expression shaped like e: a
// boolean literal if e is itself a boolean literal ("true"/"false"),
// otherwise the integer literal "0". There is no static type checker in
// this provider, so subatom-to-constant mutation has no declared type to
// consult; matching the replaced expression's own surface form is the best
// available approximation, and keeps a Bool-typed subatom from being
// replaced with a numeral that would fail to parse back as one.
func ZeroFor(e ast.Expr) ast.Expr {
	pos := e.NodePos()
	if lit, ok := e.(*ast.LiteralExpr); ok && (lit.Raw == "true" || lit.Raw == "false") {
		return &ast.LiteralExpr{Pos: pos, EndPos: e.NodeEndPos(), Raw: "false"}
	}
	return &ast.LiteralExpr{Pos: pos, EndPos: e.NodeEndPos(), Raw: "0"}
}
