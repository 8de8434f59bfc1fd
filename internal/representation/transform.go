// SPDX-License-Identifier: Apache-2.0
package representation

import (
	"fmt"
	"sort"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
	"repairengine/internal/provider"
)

// expandHistory rewrites raw edit history into the "working" history the
// transform actually folds. Outside legacy-buggy mode, Swap passes through
// unchanged: the fold below handles it as one atomic read-both-write-both
// step, which fires at both endpoints on its own and is what makes two
// successive Swap(x, y) applications restore the original. legacySwapBug
// reproduces the historical buggy expansion instead (delete at min(x, y),
// then append at min(x, y) with max(x, y)'s body) for replaying old
// experiment runs; that expansion only ever touches one endpoint, which is
// the bug being reproduced.
func expandHistory(h editops.History, legacySwapBug LegacySwapBug) editops.History {
	if !legacySwapBug {
		out := make(editops.History, len(h))
		copy(out, h)
		return out
	}
	out := make(editops.History, 0, len(h))
	for _, e := range h {
		if e.Kind != editops.Swap {
			out = append(out, e)
			continue
		}
		lo, hi := e.X, e.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		out = append(out, editops.NewDelete(lo), editops.NewAppend(lo, hi))
	}
	return out
}

// positionFold tracks the statement list currently standing at one touched
// sid as the fold walks the working history in order. body[0] is always the
// position's current "base" statement (what a later edit reads if it names
// this sid as a donor); any further elements are appended clones trailing
// it, which never themselves become donors.
type positionFold struct {
	body []ast.Stmt
}

// foldReplacements walks wh in list order exactly once, threading a running
// map of touched-position state so each edit sees the cumulative effect of
// every earlier edit — on its own destination (last-write-wins, Testable
// Property 5) and, for Swap/Append/Replace donors, on whatever sid it reads
// from (EditHistory's "later edits see the result of earlier ones").
//
// Swap is handled atomically: both endpoints' current base statements are
// snapshotted before either is overwritten. Folding it as two independent
// single-destination edits instead (the historical expansion this package
// used to perform) corrupts the second endpoint, since by the time it is
// processed the first endpoint's write has already changed what the second
// reads — which is exactly what breaks Swap's self-inverse property
// (Testable Property 4: two applications of Swap(x, y) restore the
// original).
func foldReplacements(store *atomstore.Store, wh editops.History) (map[ast.Sid][]ast.Stmt, error) {
	positions := make(map[ast.Sid]*positionFold)
	clone := store.Provider.CloneStmt

	ensure := func(sid ast.Sid) (*positionFold, error) {
		if pf, ok := positions[sid]; ok {
			return pf, nil
		}
		orig, ok := store.StmtByID(sid)
		if !ok {
			return nil, fmt.Errorf("representation: edit references unknown sid %d", sid)
		}
		pf := &positionFold{body: []ast.Stmt{clone(orig)}}
		positions[sid] = pf
		return pf, nil
	}

	// donorClone returns a fresh, deeply sid-zeroed copy of sid's current
	// base statement, suitable for inlining at a different position.
	donorClone := func(sid ast.Sid) (ast.Stmt, error) {
		pf, err := ensure(sid)
		if err != nil {
			return nil, err
		}
		c := clone(pf.body[0])
		ast.ZeroSidsDeep(c)
		return c, nil
	}

	for _, e := range wh {
		switch e.Kind {
		case editops.Swap:
			dx, err := ensure(e.X)
			if err != nil {
				return nil, err
			}
			dy, err := ensure(e.Y)
			if err != nil {
				return nil, err
			}
			sx := clone(dx.body[0])
			ast.ZeroSidsDeep(sx)
			sy := clone(dy.body[0])
			ast.ZeroSidsDeep(sy)
			dx.body = []ast.Stmt{sy}
			dy.body = []ast.Stmt{sx}
			continue
		}

		dst, err := ensure(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Kind {
		case editops.Delete:
			dst.body = []ast.Stmt{ast.EmptyBlockStmt(dst.body[0].NodePos())}

		case editops.Append:
			donor, err := donorClone(e.Y)
			if err != nil {
				return nil, err
			}
			dst.body = append(dst.body, donor)

		case editops.Replace:
			donor, err := donorClone(e.Y)
			if err != nil {
				return nil, err
			}
			dst.body = []ast.Stmt{donor}

		case editops.ReplaceSubatom:
			ast.ReplaceSubatomAt(dst.body[0], e.SubatomIndex, e.SubatomExpr)

		case editops.Template:
			// Template-driven repair is named only where it intersects edit
			// application (see the core's non-goals); the default provider
			// has no template bank, so this is a documented no-op.
		}
	}

	repl := make(map[ast.Sid][]ast.Stmt, len(positions))
	for sid, pf := range positions {
		repl[sid] = pf.body
	}
	return repl, nil
}

// rebuildFiles produces a fresh copy of every file in files, splicing repl's
// replacement lists in at their touched statements' positions and
// recursing into every nested block (including inside spliced-in
// replacements, which is a no-op for sid-zeroed donor clones but matters for
// a destination's own clone when it is itself a container like If/Loop).
// Both representation flavors call this against store.Files, by way of
// materialize.
func rebuildFiles(store *atomstore.Store, repl map[ast.Sid][]ast.Stmt) map[string]*ast.File {
	out := make(map[string]*ast.File, len(store.Files))
	for name, f := range store.Files {
		out[name] = rebuildFile(f, repl)
	}
	fixupDuplicateSids(out, store.Provider)
	return out
}

func rebuildFile(f *ast.File, repl map[ast.Sid][]ast.Stmt) *ast.File {
	nf := &ast.File{Pos: f.Pos, EndPos: f.EndPos, Name: f.Name}
	for _, fn := range f.Functions {
		nfn := *fn
		nfn.Params = append([]*ast.FunctionParam(nil), fn.Params...)
		nfn.Body = rebuildBlock(fn.Body, repl)
		nf.Functions = append(nf.Functions, &nfn)
	}
	return nf
}

func rebuildBlock(b *ast.Block, repl map[ast.Sid][]ast.Stmt) *ast.Block {
	if b == nil {
		return nil
	}
	nb := &ast.Block{Pos: b.Pos, EndPos: b.EndPos}
	nb.Items = rebuildStmtSlice(b.Items, repl)
	if len(nb.Items) == 0 {
		nb.Items = []ast.Stmt{ast.EmptyBlockStmt(nb.Pos)}
	}
	return nb
}

func rebuildStmtSlice(items []ast.Stmt, repl map[ast.Sid][]ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, item := range items {
		sid := ast.SidOf(item)
		if sid != 0 {
			if rs, ok := repl[sid]; ok {
				for _, r := range rs {
					out = append(out, rebuildStmt(r, repl))
				}
				continue
			}
		}
		out = append(out, rebuildStmt(item, repl))
	}
	return out
}

func rebuildStmt(s ast.Stmt, repl map[ast.Sid][]ast.Stmt) ast.Stmt {
	switch st := s.(type) {
	case *ast.IfStmt:
		c := *st
		c.Then = rebuildBlock(st.Then, repl)
		c.Else = rebuildBlock(st.Else, repl)
		return &c
	case *ast.LoopStmt:
		c := *st
		c.Body = rebuildBlock(st.Body, repl)
		return &c
	case *ast.SwitchStmt:
		c := *st
		c.Cases = make([]*ast.SwitchCase, len(st.Cases))
		for i, cs := range st.Cases {
			nc := *cs
			nc.Body = rebuildStmtSlice(cs.Body, repl)
			c.Cases[i] = &nc
		}
		return &c
	case *ast.TryStmt:
		c := *st
		c.Body = rebuildBlock(st.Body, repl)
		c.CatchBody = rebuildBlock(st.CatchBody, repl)
		return &c
	default:
		return s
	}
}

// fixupDuplicateSids walks the rebuilt tree in file-name order and zeroes
// any non-zero sid seen a second time, the safety-net pass the spec
// requires on top of clone-time zeroing.
func fixupDuplicateSids(files map[string]*ast.File, p provider.ASTProvider) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[ast.Sid]struct{})
	for _, name := range names {
		p.VisitStatements(files[name], func(_ *ast.Function, st ast.Stmt) {
			sid := ast.SidOf(st)
			if sid == 0 {
				return
			}
			if _, dup := seen[sid]; dup {
				ast.SetSid(st, 0)
				return
			}
			seen[sid] = struct{}{}
		})
	}
}

// materialize runs the full fold -> rebuild -> fixup pipeline for history h
// against store's pristine files. Patch form calls this lazily, at print
// time; whole-tree form calls it eagerly, on every Apply.
func materialize(store *atomstore.Store, h editops.History, legacySwapBug LegacySwapBug) (map[string]*ast.File, error) {
	wh := expandHistory(h, legacySwapBug)
	repl, err := foldReplacements(store, wh)
	if err != nil {
		return nil, err
	}
	return rebuildFiles(store, repl), nil
}
