// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"strconv"

	"repairengine/internal/ast"
)

// CoverageMode selects which of the four trace-emission behaviors an
// instrumented program exercises. Uniq restricts each sid to at most one
// emission per run, backed by a statement-indexed byte array sized
// max_atom+1; Multithread opens and flushes the trace file per emission
// instead of once per process. The two are independent and compose in the
// obvious combinations. Neither behavior is implemented by the statement
// language itself (it has no array or file-handle types) — instrumentation
// only selects which named trace hook the instrumented source calls; the
// hook's body, and the output path it writes to, are supplied by whatever
// external build+test harness the evaluator shells out to, the same
// external-collaborator seam the evaluator and compiler already occupy.
type CoverageMode struct {
	Uniq        bool
	Multithread bool
}

// TraceFuncName returns the hook name an instrumented program calls for a
// given mode, one of four fixed names the external harness is expected to
// provide a definition for.
func (m CoverageMode) TraceFuncName() string {
	switch {
	case m.Uniq && m.Multithread:
		return "__repair_trace_uniq_mt"
	case m.Uniq:
		return "__repair_trace_uniq"
	case m.Multithread:
		return "__repair_trace_mt"
	default:
		return "__repair_trace"
	}
}

// Instrument returns a copy of f (fresh functions, blocks and statements;
// if/loop conditions, switch tags and case values, and function parameters
// are shared with f) with a call to mode's trace hook
// inserted immediately before every mutatable statement, each call carrying
// that statement's sid as its sole argument. Non-mutatable constructs
// (goto, break, continue, switch, try/catch, bare blocks) are walked into
// but never themselves preceded by a trace call, matching the numbering
// pass's own mutatable/non-mutatable split.
func Instrument(f *ast.File, mode CoverageMode) *ast.File {
	out := &ast.File{Pos: f.Pos, EndPos: f.EndPos, Name: f.Name}
	for _, fn := range f.Functions {
		out.Functions = append(out.Functions, instrumentFunction(fn, mode))
	}
	return out
}

func instrumentFunction(fn *ast.Function, mode CoverageMode) *ast.Function {
	out := &ast.Function{
		Pos: fn.Pos, EndPos: fn.EndPos,
		Name: fn.Name, Params: fn.Params, ReturnType: fn.ReturnType,
		Body: instrumentBlock(fn.Body, mode),
	}
	return out
}

func instrumentBlock(b *ast.Block, mode CoverageMode) *ast.Block {
	if b == nil {
		return nil
	}
	out := &ast.Block{Pos: b.Pos, EndPos: b.EndPos}
	for _, item := range b.Items {
		if sid := ast.SidOf(item); sid != 0 {
			out.Items = append(out.Items, traceCall(item.NodePos(), sid, mode))
		}
		out.Items = append(out.Items, instrumentStmt(item, mode))
	}
	return out
}

// instrumentStmt copies st (container statements keep their condition and
// tag expressions shared with st), recursing into any nested blocks
// (If/Loop/Switch/Try bodies) so their mutatable statements get their own
// trace calls too.
func instrumentStmt(st ast.Stmt, mode CoverageMode) ast.Stmt {
	switch s := st.(type) {
	case *ast.IfStmt:
		return &ast.IfStmt{Pos: s.Pos, EndPos: s.EndPos, Sid: s.Sid, Cond: s.Cond,
			Then: instrumentBlock(s.Then, mode), Else: instrumentBlock(s.Else, mode)}
	case *ast.LoopStmt:
		return &ast.LoopStmt{Pos: s.Pos, EndPos: s.EndPos, Sid: s.Sid, Cond: s.Cond,
			Body: instrumentBlock(s.Body, mode)}
	case *ast.SwitchStmt:
		cases := make([]*ast.SwitchCase, len(s.Cases))
		for i, c := range s.Cases {
			var body []ast.Stmt
			for _, item := range c.Body {
				if sid := ast.SidOf(item); sid != 0 {
					body = append(body, traceCall(item.NodePos(), sid, mode))
				}
				body = append(body, instrumentStmt(item, mode))
			}
			cases[i] = &ast.SwitchCase{Pos: c.Pos, EndPos: c.EndPos, Value: c.Value, Body: body}
		}
		return &ast.SwitchStmt{Pos: s.Pos, EndPos: s.EndPos, Tag: s.Tag, Cases: cases}
	case *ast.TryStmt:
		return &ast.TryStmt{Pos: s.Pos, EndPos: s.EndPos, CatchVar: s.CatchVar,
			Body: instrumentBlock(s.Body, mode), CatchBody: instrumentBlock(s.CatchBody, mode)}
	default:
		return ast.CloneStmt(st)
	}
}

// traceCall builds the injected "__repair_trace(sid);" statement. Its Sid
// is left zero: it is never itself a target for further numbering or
// mutation, only a byproduct of instrumenting an already-numbered tree.
func traceCall(pos ast.Position, sid ast.Sid, mode CoverageMode) ast.Stmt {
	call := &ast.CallExpr{
		Pos: pos, EndPos: pos,
		Callee: mode.TraceFuncName(),
		Args:   []ast.Expr{&ast.LiteralExpr{Pos: pos, EndPos: pos, Raw: strconv.Itoa(int(sid))}},
	}
	return &ast.ExprStmt{Pos: pos, EndPos: pos, X: call}
}
