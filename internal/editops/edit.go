// SPDX-License-Identifier: Apache-2.0

// Package editops defines the repair engine's edit operators as a closed
// tagged union, the same "flat struct, exported tag, unexported discriminant
// methods" sum-type shape the teacher's internal/ast package uses for
// statement and expression kinds. Constructors are pure: building an Edit
// value never touches a Representation. Application lives in
// internal/representation, which is the only package that mutates anything.
package editops

import "repairengine/internal/ast"

// Kind discriminates the six edit operators.
type Kind int

const (
	Delete Kind = iota
	Append
	Swap
	Replace
	ReplaceSubatom
	Template
)

func (k Kind) String() string {
	switch k {
	case Delete:
		return "Delete"
	case Append:
		return "Append"
	case Swap:
		return "Swap"
	case Replace:
		return "Replace"
	case ReplaceSubatom:
		return "ReplaceSubatom"
	case Template:
		return "Template"
	default:
		return "Illegal"
	}
}

// Edit is one entry in an EditHistory. Only the fields relevant to Kind are
// populated; the rest are zero.
type Edit struct {
	Kind Kind

	X ast.Sid // the statement an edit targets, for every kind
	Y ast.Sid // the donor statement, for Append/Swap/Replace

	SubatomIndex int      // ReplaceSubatom: which subatom of X
	SubatomExpr  ast.Expr // ReplaceSubatom: its replacement

	TemplateName string           // Template
	Bindings     map[string]ast.Sid // Template: hole name -> atom id
}

// NewDelete builds Delete(x): replace statement x with an empty block.
func NewDelete(x ast.Sid) Edit { return Edit{Kind: Delete, X: x} }

// NewAppend builds Append(x, y): after x, inline a fresh clone of y.
func NewAppend(x, y ast.Sid) Edit { return Edit{Kind: Append, X: x, Y: y} }

// NewSwap builds Swap(x, y): exchange the bodies of x and y.
func NewSwap(x, y ast.Sid) Edit { return Edit{Kind: Swap, X: x, Y: y} }

// NewReplace builds Replace(x, y): replace x with a fresh clone of y.
func NewReplace(x, y ast.Sid) Edit { return Edit{Kind: Replace, X: x, Y: y} }

// NewReplaceSubatom builds ReplaceSubatom(x, i, e): replace the i-th
// expression subatom of x with e.
func NewReplaceSubatom(x ast.Sid, i int, e ast.Expr) Edit {
	return Edit{Kind: ReplaceSubatom, X: x, SubatomIndex: i, SubatomExpr: e}
}

// NewTemplate builds Template(name, bindings): a named code template applied
// with hole -> atom-id bindings.
func NewTemplate(name string, bindings map[string]ast.Sid) Edit {
	return Edit{Kind: Template, TemplateName: name, Bindings: bindings}
}

// History is an ordered list of edits. Order is semantic: later edits see
// the result of earlier ones on the same statement at apply time.
type History []Edit

// Clone returns a copy of h safe to extend independently (crossover and
// mutation both need to branch a parent's history without aliasing it).
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Touches returns the set of statement ids any edit in h names, either as
// its target or its donor. Diversity selection does not use it: its token
// sets are the wire-encoded edits themselves (distributed.tokensOf).
func (h History) Touches() map[ast.Sid]struct{} {
	out := make(map[ast.Sid]struct{})
	for _, e := range h {
		out[e.X] = struct{}{}
		switch e.Kind {
		case Append, Swap, Replace:
			out[e.Y] = struct{}{}
		}
	}
	return out
}
