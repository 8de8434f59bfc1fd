// SPDX-License-Identifier: Apache-2.0
package distributed

import (
	"sort"

	"golang.org/x/exp/maps"

	"repairengine/internal/editops"
	"repairengine/internal/fitness"
	"repairengine/internal/representation"
)

// tokensOf renders each of h's edits as its own wire token (reusing
// editops.EncodeHistory on a length-one slice rather than duplicating its
// formatting rules) and returns them as a set. ReplaceSubatom and Template
// edits have no wire form; they are silently excluded from the token set
// rather than making the whole variant untokenizable, since a partial
// token set still usefully participates in the set-cover comparison.
func tokensOf(h editops.History) map[string]struct{} {
	out := make(map[string]struct{}, len(h))
	for _, e := range h {
		s, err := editops.EncodeHistory(editops.History{e})
		if err != nil {
			continue
		}
		out[s] = struct{}{}
	}
	return out
}

// DiversitySelect picks up to want variants from pool whose edit histories
// collectively cover the most distinct tokens: greedily take the variant
// covering the largest still-uncovered slice of the union, remove that
// slice, repeat. Once no pool variant has any uncovered tokens left (or
// pool is exhausted), the remainder is padded with fresh, edit-free clones
// of original, scored as the positive-test count — a neutral baseline
// exchange partner rather than a penalized one.
func DiversitySelect(pool []fitness.Record, want int, original representation.Representation, positiveTestCount int) []fitness.Record {
	if want <= 0 {
		return nil
	}

	type entry struct {
		record fitness.Record
		tokens map[string]struct{}
	}
	entries := make([]entry, len(pool))
	uncovered := make(map[string]struct{})
	for i, r := range pool {
		t := tokensOf(r.Variant.History())
		entries[i] = entry{record: r, tokens: t}
		for tok := range t {
			uncovered[tok] = struct{}{}
		}
	}

	var selected []fitness.Record
	used := make(map[int]bool, len(entries))
	for len(selected) < want && len(uncovered) > 0 {
		bestIdx, bestCount := -1, 0
		for i, e := range entries {
			if used[i] {
				continue
			}
			count := 0
			// Traversal order over e.tokens never changes this count, but
			// walking it via a sorted key slice (rather than raw map
			// iteration) keeps every pass over a token set reproducible
			// under a fixed seed, matching the rest of the search's
			// determinism discipline.
			for _, tok := range sortedKeys(e.tokens) {
				if _, ok := uncovered[tok]; ok {
					count++
				}
			}
			if count > bestCount {
				bestCount, bestIdx = count, i
			}
		}
		if bestIdx == -1 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, entries[bestIdx].record)
		for _, tok := range sortedKeys(entries[bestIdx].tokens) {
			delete(uncovered, tok)
		}
	}

	for len(selected) < want {
		selected = append(selected, fitness.Record{Variant: original.Clone(), Score: float64(positiveTestCount)})
	}
	return selected
}

func sortedKeys(m map[string]struct{}) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
