// SPDX-License-Identifier: Apache-2.0

// Package parser turns the grammar package's concrete syntax tree into the
// internal/ast tree the rest of the repair engine operates on. It assigns
// no statement ids: numbering is atomstore's job, run once per AtomStore
// load so ids stay dense and monotonic across every file in a manifest.
package parser

import (
	"repairengine/internal/ast"
	"repairengine/internal/grammar"

	"github.com/alecthomas/participle/v2/lexer"
)

// ParseSource parses one source file into an ast.File.
func ParseSource(filename, source string) (*ast.File, error) {
	prog, err := grammar.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return buildFile(filename, prog), nil
}

func pos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func buildFile(filename string, prog *grammar.Program) *ast.File {
	f := &ast.File{Pos: pos(prog.Pos), EndPos: pos(prog.EndPos), Name: filename}
	for _, fn := range prog.Functions {
		f.Functions = append(f.Functions, buildFunction(fn))
	}
	return f
}

func buildFunction(fn *grammar.Function) *ast.Function {
	out := &ast.Function{
		Pos:    pos(fn.Pos),
		EndPos: pos(fn.EndPos),
		Name:   fn.Name,
		Body:   buildBlock(fn.Body),
	}
	if fn.ReturnType != nil {
		out.ReturnType = *fn.ReturnType
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, &ast.FunctionParam{
			Pos: pos(p.Pos), EndPos: pos(p.EndPos), Name: p.Name, TypeName: p.TypeName,
		})
	}
	return out
}

func buildBlock(b *grammar.Block) *ast.Block {
	if b == nil {
		return nil
	}
	out := &ast.Block{Pos: pos(b.Pos), EndPos: pos(b.EndPos)}
	for _, s := range b.Items {
		if st := buildStmt(s); st != nil {
			out.Items = append(out.Items, st)
		}
	}
	// An empty block body gets a dummy statement so later edits have a
	// handle to target (spec step 2 of the numbering pass).
	if len(out.Items) == 0 {
		out.Items = append(out.Items, ast.EmptyBlockStmt(out.Pos))
	}
	return out
}

func buildStmt(s *grammar.Stmt) ast.Stmt {
	switch {
	case s.Let != nil:
		return buildLet(s.Let)
	case s.If != nil:
		return buildIf(s.If)
	case s.Loop != nil:
		return buildLoop(s.Loop)
	case s.Return != nil:
		return buildReturn(s.Return)
	case s.Goto != nil:
		return &ast.GotoStmt{Pos: pos(s.Goto.Pos), EndPos: pos(s.Goto.EndPos), Label: s.Goto.Label}
	case s.Break != nil:
		return &ast.BreakStmt{Pos: pos(s.Break.Pos), EndPos: pos(s.Break.EndPos)}
	case s.Continue != nil:
		return &ast.ContinueStmt{Pos: pos(s.Continue.Pos), EndPos: pos(s.Continue.EndPos)}
	case s.Switch != nil:
		return buildSwitch(s.Switch)
	case s.Try != nil:
		return buildTry(s.Try)
	case s.Assign != nil:
		return &ast.AssignStmt{
			Pos: pos(s.Assign.Pos), EndPos: pos(s.Assign.EndPos),
			Name: s.Assign.Name, Value: buildExpr(s.Assign.Value),
		}
	case s.ExprS != nil:
		return &ast.ExprStmt{Pos: pos(s.ExprS.Pos), EndPos: pos(s.ExprS.EndPos), X: buildExpr(s.ExprS.X)}
	default:
		return nil
	}
}

func buildLet(s *grammar.LetStmt) *ast.LetStmt {
	out := &ast.LetStmt{
		Pos: pos(s.Pos), EndPos: pos(s.EndPos),
		Name: s.Name, Mutable: s.Mutable, Value: buildExpr(s.Value),
	}
	if s.TypeName != nil {
		out.TypeName = *s.TypeName
	}
	return out
}

func buildIf(s *grammar.IfStmt) *ast.IfStmt {
	return &ast.IfStmt{
		Pos: pos(s.Pos), EndPos: pos(s.EndPos),
		Cond: buildExpr(s.Cond), Then: buildBlock(s.Then), Else: buildBlock(s.Else),
	}
}

func buildLoop(s *grammar.LoopStmt) *ast.LoopStmt {
	return &ast.LoopStmt{
		Pos: pos(s.Pos), EndPos: pos(s.EndPos),
		Cond: buildExpr(s.Cond), Body: buildBlock(s.Body),
	}
}

func buildReturn(s *grammar.ReturnStmt) *ast.ReturnStmt {
	return &ast.ReturnStmt{Pos: pos(s.Pos), EndPos: pos(s.EndPos), Value: buildExpr(s.Value)}
}

func buildSwitch(s *grammar.SwitchStmt) *ast.SwitchStmt {
	out := &ast.SwitchStmt{Pos: pos(s.Pos), EndPos: pos(s.EndPos), Tag: buildExpr(s.Tag)}
	for _, c := range s.Cases {
		sc := &ast.SwitchCase{Pos: pos(c.Pos), EndPos: pos(c.EndPos), Value: buildExpr(c.Value)}
		for _, item := range c.Body {
			if st := buildStmt(item); st != nil {
				sc.Body = append(sc.Body, st)
			}
		}
		out.Cases = append(out.Cases, sc)
	}
	return out
}

func buildTry(s *grammar.TryStmt) *ast.TryStmt {
	return &ast.TryStmt{
		Pos: pos(s.Pos), EndPos: pos(s.EndPos),
		Body: buildBlock(s.Body), CatchVar: s.CatchVar, CatchBody: buildBlock(s.CatchBody),
	}
}

func buildExpr(e *grammar.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	left := buildRelational(e.Left)
	for _, op := range e.Ops {
		left = &ast.BinaryExpr{Pos: left.NodePos(), EndPos: left.NodeEndPos(), Op: op.Op, Left: left, Right: buildRelational(op.Right)}
	}
	return left
}

func buildRelational(r *grammar.Relational) ast.Expr {
	left := buildAdditive(r.Left)
	for _, op := range r.Ops {
		left = &ast.BinaryExpr{Pos: left.NodePos(), EndPos: left.NodeEndPos(), Op: op.Op, Left: left, Right: buildAdditive(op.Right)}
	}
	return left
}

func buildAdditive(a *grammar.Additive) ast.Expr {
	left := buildMultiplicative(a.Left)
	for _, op := range a.Ops {
		left = &ast.BinaryExpr{Pos: left.NodePos(), EndPos: left.NodeEndPos(), Op: op.Op, Left: left, Right: buildMultiplicative(op.Right)}
	}
	return left
}

func buildMultiplicative(m *grammar.Multiplicative) ast.Expr {
	left := buildUnary(m.Left)
	for _, op := range m.Ops {
		left = &ast.BinaryExpr{Pos: left.NodePos(), EndPos: left.NodeEndPos(), Op: op.Op, Left: left, Right: buildUnary(op.Right)}
	}
	return left
}

func buildUnary(u *grammar.Unary) ast.Expr {
	x := buildPostfix(u.X)
	if u.Op != nil {
		return &ast.UnaryExpr{Pos: pos(u.Pos), EndPos: pos(u.EndPos), Op: *u.Op, X: x}
	}
	return x
}

func buildPostfix(p *grammar.Postfix) ast.Expr {
	base := buildPrimary(p.Base)
	for _, field := range p.Fields {
		base = &ast.FieldAccessExpr{Pos: base.NodePos(), EndPos: pos(p.EndPos), X: base, Field: field}
	}
	return base
}

func buildPrimary(p *grammar.Primary) ast.Expr {
	switch {
	case p.Call != nil:
		c := &ast.CallExpr{Pos: pos(p.Call.Pos), EndPos: pos(p.Call.EndPos), Callee: p.Call.Callee}
		for _, a := range p.Call.Args {
			c.Args = append(c.Args, buildExpr(a))
		}
		return c
	case p.Bool != nil:
		return &ast.LiteralExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Raw: *p.Bool}
	case p.Float != nil:
		return &ast.LiteralExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Raw: *p.Float}
	case p.Int != nil:
		return &ast.LiteralExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Raw: *p.Int}
	case p.Ident != nil:
		return &ast.IdentExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), Name: *p.Ident}
	case p.Paren != nil:
		return &ast.ParenExpr{Pos: pos(p.Pos), EndPos: pos(p.EndPos), X: buildExpr(p.Paren)}
	default:
		return nil
	}
}
