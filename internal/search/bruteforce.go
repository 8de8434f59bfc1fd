// SPDX-License-Identifier: Apache-2.0

// Package search implements the two search strategies run against a
// Representation: an exhaustive, weight-ordered brute-force sweep over every
// distance-one edit, and a genetic algorithm with tournament selection,
// one-point crossover, and weighted micro-mutation.
package search

import (
	"sort"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
	"repairengine/internal/fitness"
	"repairengine/internal/langconst"
	"repairengine/internal/localization"
	"repairengine/internal/representation"
)

// weightedEdit is one candidate edit paired with its priority weight and a
// lazy thunk building the actual editops.Edit, so enumeration never
// constructs expression nodes for candidates the sweep never reaches.
type weightedEdit struct {
	weight float64
	build  func() editops.Edit
	// tie-break fields: deterministic ordering among equal-weight entries.
	kind editops.Kind
	x, y ast.Sid
	sub  int
}

// enumerateBruteForce builds every distance-one edit the operators allow
// against store, given fault and fix localizations, sorted descending by
// weight with a deterministic tie-break. check controls whether donor lists
// are scope-filtered.
func enumerateBruteForce(store *atomstore.Store, fault, fix localization.List, check atomstore.SemanticCheck) []weightedEdit {
	var out []weightedEdit

	faultBySid := make(map[ast.Sid]float64)
	for _, c := range fault {
		if w, ok := faultBySid[c.Sid]; !ok || c.Weight > w {
			faultBySid[c.Sid] = c.Weight
		}
	}
	xs := make([]ast.Sid, 0, len(faultBySid))
	for sid := range faultBySid {
		xs = append(xs, sid)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })

	for _, x := range xs {
		wfault := faultBySid[x]
		x := x

		out = append(out, weightedEdit{
			weight: wfault,
			build:  func() editops.Edit { return editops.NewDelete(x) },
			kind:   editops.Delete, x: x,
		})

		for _, y := range store.AppendSources(x, fix, check) {
			y := y
			out = append(out, weightedEdit{
				weight: wfault * y.Weight * 0.9,
				build:  func() editops.Edit { return editops.NewAppend(x, y.Sid) },
				kind:   editops.Append, x: x, y: y.Sid,
			})
		}

		for _, y := range store.SwapSources(x, fault, check) {
			y := y
			out = append(out, weightedEdit{
				weight: wfault * y.Weight * 0.8,
				build:  func() editops.Edit { return editops.NewSwap(x, y.Sid) },
				kind:   editops.Swap, x: x, y: y.Sid,
			})
		}

		stmt, ok := store.StmtByID(x)
		if !ok {
			continue
		}
		subatoms := store.Provider.SubatomsOf(stmt)
		for i, sub := range subatoms {
			i, sub := i, sub
			out = append(out, weightedEdit{
				weight: wfault * 0.9,
				build:  func() editops.Edit { return editops.NewReplaceSubatom(x, i, langconst.ZeroFor(sub)) },
				kind:   editops.ReplaceSubatom, x: x, sub: i,
			})
		}

		for _, y := range store.AppendSources(x, fix, check) {
			donorStmt, ok := store.StmtByID(y.Sid)
			if !ok {
				continue
			}
			donorSub := store.Provider.SubatomsOf(donorStmt)
			for di := range subatoms {
				for si, sv := range donorSub {
					di, sv := di, sv
					out = append(out, weightedEdit{
						weight: wfault * 0.9,
						build:  func() editops.Edit { return editops.NewReplaceSubatom(x, di, store.Provider.CloneExpr(sv)) },
						kind:   editops.ReplaceSubatom, x: x, y: y.Sid, sub: di*1000 + si,
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight > out[j].weight
		}
		if out[i].kind != out[j].kind {
			return out[i].kind < out[j].kind
		}
		if out[i].x != out[j].x {
			return out[i].x < out[j].x
		}
		if out[i].y != out[j].y {
			return out[i].y < out[j].y
		}
		return out[i].sub < out[j].sub
	})
	return out
}

// BruteForceResult is what a brute-force run found.
type BruteForceResult struct {
	Found     bool
	Record    fitness.Record
	Evaluated int
}

// RunBruteForce walks enumerateBruteForce's output in order, materializing
// one variant at a time from base and stopping at the first whose score
// reaches the solution threshold. An empty candidate set is not an error:
// the caller's warn callback (nil-safe) is invoked instead.
func RunBruteForce(base representation.Representation, fault, fix localization.List, check atomstore.SemanticCheck, eval fitness.Evaluator, positiveTestCount int, warn func(string)) BruteForceResult {
	candidates := enumerateBruteForce(base.Store(), fault, fix, check)
	if len(candidates) == 0 {
		if warn != nil {
			warn("search: brute-force enumeration produced no candidates")
		}
		return BruteForceResult{}
	}

	evaluated := 0
	for _, c := range candidates {
		variant := base.Clone()
		if err := variant.Apply(c.build()); err != nil {
			continue
		}
		score := eval.Evaluate(variant)
		evaluated++
		if fitness.IsSolution(score, positiveTestCount) {
			return BruteForceResult{Found: true, Record: fitness.Record{Variant: variant, Score: score}, Evaluated: evaluated}
		}
	}
	return BruteForceResult{Evaluated: evaluated}
}
