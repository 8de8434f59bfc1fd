// SPDX-License-Identifier: Apache-2.0

// Package localization holds the two weighted lists attached to every
// candidate variant: fault_localization (suspected modification sites) and
// fix_localization (candidate donor sites). Both are produced externally
// from coverage and consumed here; this package only shapes and
// canonicalizes them.
package localization

import (
	"math/rand"
	"sort"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
)

// List is a weighted sid list in either localization role. The element type
// is atomstore.Candidate directly so a List needs no conversion before it
// reaches AppendSources/SwapSources/ReplaceSources.
type List []atomstore.Candidate

// Clone returns an independent copy.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Sids returns the list's distinct sids, sorted, dropping weights.
func (l List) Sids() []int {
	seen := make(map[int]struct{}, len(l))
	for _, c := range l {
		seen[int(c.Sid)] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for sid := range seen {
		out = append(out, sid)
	}
	sort.Ints(out)
	return out
}

// TotalWeight sums every entry's weight, the denominator roulette selection
// draws against.
func (l List) TotalWeight() float64 {
	var total float64
	for _, c := range l {
		total += c.Weight
	}
	return total
}

// FilterModulo keeps only entries whose sid satisfies id mod numComps ==
// compID, the search-space partitioning a distributed deme applies before
// mutating.
func (l List) FilterModulo(numComps, compID int) List {
	if numComps <= 1 {
		return l.Clone()
	}
	var out List
	for _, c := range l {
		if int(c.Sid)%numComps == compID {
			out = append(out, c)
		}
	}
	return out
}

// NewFaultLocalization builds a fault list directly from the caller's
// (sid, weight) entries. Fault localization never canonicalizes: a bug can
// live at a specific textual occurrence even when another statement prints
// identically.
func NewFaultLocalization(entries []atomstore.Candidate) List {
	out := make(List, len(entries))
	copy(out, entries)
	return out
}

// NewFixLocalization builds a fix list, rewriting every entry's sid to its
// canonical representative (identical pretty-printed statements collapse
// onto the lowest-numbered one); the first weight seen for a representative
// wins, so the donor pool a search draws from never offers the same fix
// twice under different ids.
func NewFixLocalization(store *atomstore.Store, entries []atomstore.Candidate) List {
	canon := store.BuildCanonicalMap()
	return List(atomstore.Canonicalize(canon, entries))
}

// Roulette draws r = Uniform(0, sum of weights) and returns the first
// candidate whose running weight total reaches or exceeds r. It reports
// false for an empty or all-zero-weight list.
func Roulette(rng *rand.Rand, l List) (atomstore.Candidate, bool) {
	total := l.TotalWeight()
	if total <= 0 {
		return atomstore.Candidate{}, false
	}
	r := rng.Float64() * total
	var running float64
	for _, c := range l {
		running += c.Weight
		if running >= r {
			return c, true
		}
	}
	return l[len(l)-1], true
}

// WeightedSample draws k sids by weight, with replacement, from a
// deduplicated copy of l. Used by the genetic algorithm's pro_mut
// pre-selection.
func WeightedSample(rng *rand.Rand, l List, k int) []ast.Sid {
	deduped := dedupeBySid(l)
	out := make([]ast.Sid, 0, k)
	for i := 0; i < k; i++ {
		c, ok := Roulette(rng, deduped)
		if !ok {
			break
		}
		out = append(out, c.Sid)
	}
	return out
}

func dedupeBySid(l List) List {
	seen := make(map[ast.Sid]struct{}, len(l))
	var out List
	for _, c := range l {
		if _, ok := seen[c.Sid]; ok {
			continue
		}
		seen[c.Sid] = struct{}{}
		out = append(out, c)
	}
	return out
}
