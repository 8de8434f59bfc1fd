// SPDX-License-Identifier: Apache-2.0
package search

import (
	"math/rand"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
	"repairengine/internal/langconst"
	"repairengine/internal/localization"
	"repairengine/internal/representation"
)

// mutate runs the weighted micro-mutation pass over v in place, returning v
// for call-site convenience. L is the fault localization, optionally
// restricted to this deme's slice of the search space; fix is the donor
// pool for append/replace-shaped mutations.
func mutate(rng *rand.Rand, v representation.Representation, fault, fix localization.List, cfg Config) representation.Representation {
	store := v.Store()

	l := fault
	if cfg.SplitSearch && cfg.NumComps > 1 {
		l = l.FilterModulo(cfg.NumComps, cfg.CompID)
	}

	preselected := make(map[ast.Sid]bool)
	if cfg.ProMut > 0 {
		for _, sid := range localization.WeightedSample(rng, l, cfg.ProMut) {
			preselected[sid] = true
		}
	}

	for _, c := range l {
		if !preselected[c.Sid] && rng.Float64() > cfg.MutRate*c.Weight {
			continue
		}
		mutateAt(rng, v, store, c.Sid, fault, fix, cfg)
	}
	return v
}

// mutateAt fires exactly one mutation at sid, per the subatom-vs-statement
// branch point: a subatom mutation requires sid to actually have subatoms
// and the subatom coin flip to land; everything else (and any subatom
// attempt that finds no qualifying donor) falls back to a statement-level
// operator.
func mutateAt(rng *rand.Rand, v representation.Representation, store *atomstore.Store, sid ast.Sid, fault, fix localization.List, cfg Config) {
	stmt, ok := store.StmtByID(sid)
	if !ok {
		return
	}
	subatoms := store.Provider.SubatomsOf(stmt)

	if len(subatoms) > 0 && rng.Float64() <= cfg.SubatomMutRate {
		if mutateSubatom(rng, v, store, sid, subatoms, fix, cfg) {
			return
		}
	}
	mutateStatement(rng, v, store, sid, fault, fix, cfg)
}

// mutateSubatom performs either a subatom-to-constant replacement or a
// randomly chosen subatom of a donor copied into a randomly chosen slot of
// sid (the two indices are drawn independently). It reports false when no
// donor with any subatom at all exists, signaling the caller to fall back
// to a statement-level mutation.
func mutateSubatom(rng *rand.Rand, v representation.Representation, store *atomstore.Store, sid ast.Sid, subatoms []ast.Expr, fix localization.List, cfg Config) bool {
	if rng.Float64() <= cfg.SubatomConstRate {
		idx := rng.Intn(len(subatoms))
		_ = v.Apply(editops.NewReplaceSubatom(sid, idx, langconst.ZeroFor(subatoms[idx])))
		return true
	}

	donors := store.AppendSources(sid, fix, cfg.Check)
	var qualifying []atomstore.Candidate
	for _, d := range donors {
		if dstmt, ok := store.StmtByID(d.Sid); ok && len(store.Provider.SubatomsOf(dstmt)) > 0 {
			qualifying = append(qualifying, d)
		}
	}
	if len(qualifying) == 0 {
		return false
	}
	donor := qualifying[rng.Intn(len(qualifying))]
	dstmt, _ := store.StmtByID(donor.Sid)
	dsub := store.Provider.SubatomsOf(dstmt)

	destIdx := rng.Intn(len(subatoms))
	srcIdx := rng.Intn(len(dsub))
	_ = v.Apply(editops.NewReplaceSubatom(sid, destIdx, store.Provider.CloneExpr(dsub[srcIdx])))
	return true
}

// mutateStatement picks uniformly among delete/append/swap, retrying with
// that option excluded if its donor pool is empty. Delete never has a
// donor requirement, so the loop always terminates.
func mutateStatement(rng *rand.Rand, v representation.Representation, store *atomstore.Store, sid ast.Sid, fault, fix localization.List, cfg Config) {
	options := []int{0, 1, 2} // delete, append, swap
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	for _, op := range options {
		switch op {
		case 0:
			_ = v.Apply(editops.NewDelete(sid))
			return
		case 1:
			donors := store.AppendSources(sid, fix, cfg.Check)
			if len(donors) == 0 {
				continue
			}
			c, ok := localization.Roulette(rng, localization.List(donors))
			if !ok {
				continue
			}
			_ = v.Apply(editops.NewAppend(sid, c.Sid))
			return
		case 2:
			donors := store.SwapSources(sid, fault, cfg.Check)
			if len(donors) == 0 {
				continue
			}
			c, ok := localization.Roulette(rng, localization.List(donors))
			if !ok {
				continue
			}
			_ = v.Apply(editops.NewSwap(sid, c.Sid))
			return
		}
	}
}
