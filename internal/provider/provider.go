// SPDX-License-Identifier: Apache-2.0

// Package provider defines the language-plumbing contract AtomStore loading
// and edit application run against, so a second target language can plug in
// without atomstore or representation changing: parse, pretty-print, clone,
// walk, and subatom access, in one seam.
package provider

import (
	"repairengine/internal/ast"
	"repairengine/internal/parser"
)

// ASTProvider is the language-specific plumbing atomstore.Load and the
// representation transform run against. The default implementation wraps
// this module's own parser/ast packages; a second target language
// implements the same eight methods and nothing upstream changes.
type ASTProvider interface {
	// Parse turns source text for filename into an AST file.
	Parse(filename, source string) (*ast.File, error)

	// Preprocess splits compound statements and fills empty block bodies
	// with a dummy statement, ahead of numbering.
	Preprocess(f *ast.File)

	CloneStmt(s ast.Stmt) ast.Stmt
	CloneExpr(e ast.Expr) ast.Expr

	// VisitStatements walks every statement reachable from a file.
	VisitStatements(f *ast.File, visit func(fn *ast.Function, s ast.Stmt))

	// VisitExpressionsIn walks the expressions a single statement owns
	// directly, in left-to-right order.
	VisitExpressionsIn(s ast.Stmt, visit func(ast.Expr))

	PrettyPrint(f *ast.File) string

	// SubatomsOf returns the ordered list of substitutable expressions
	// ReplaceSubatom indexes into.
	SubatomsOf(s ast.Stmt) []ast.Expr
}

// Default wraps this module's own parser and ast packages. Preprocessing
// (compound-statement splitting, empty-block dummy insertion) already
// happens inside parser.ParseSource and ast.EmptyBlockStmt's call sites, so
// Preprocess is a no-op here — a provider for a language whose grammar
// doesn't pre-split compound statements would do real work in it.
type Default struct{}

func (Default) Parse(filename, source string) (*ast.File, error) {
	return parser.ParseSource(filename, source)
}

func (Default) Preprocess(*ast.File) {}

func (Default) CloneStmt(s ast.Stmt) ast.Stmt { return ast.CloneStmt(s) }
func (Default) CloneExpr(e ast.Expr) ast.Expr { return ast.CloneExpr(e) }

func (Default) VisitStatements(f *ast.File, visit func(fn *ast.Function, s ast.Stmt)) {
	ast.VisitStatements(f, visit)
}

func (Default) VisitExpressionsIn(s ast.Stmt, visit func(ast.Expr)) {
	ast.VisitExpressionsIn(s, visit)
}

func (Default) PrettyPrint(f *ast.File) string { return f.String() }

func (Default) SubatomsOf(s ast.Stmt) []ast.Expr { return ast.SubatomsOf(s) }
