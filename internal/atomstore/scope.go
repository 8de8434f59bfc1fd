// SPDX-License-Identifier: Apache-2.0
package atomstore

import (
	"fmt"

	"repairengine/internal/ast"
)

// Candidate is an (sid, weight) pair drawn from a weighted localization
// list, filtered or passed through unchanged by the scope predicates below.
type Candidate struct {
	Sid    ast.Sid
	Weight float64
}

// InScopeAt reports whether every non-global variable src reads is visible
// at dest: locals_used[src] ⊆ locals_have[dest]. It panics if either sid was
// never numbered — the spec calls this a hard abort, not a recoverable
// condition, since it can only happen from a caller bug.
func (s *Store) InScopeAt(dest, src ast.Sid) bool {
	used, ok := s.localsUsed[src]
	if !ok {
		panic(fmt.Sprintf("atomstore: in_scope_at: sid %d has no locals_used entry", src))
	}
	have, ok := s.localsHave[dest]
	if !ok {
		panic(fmt.Sprintf("atomstore: in_scope_at: sid %d has no locals_have entry", dest))
	}
	for v := range used {
		if _, ok := have[v]; !ok {
			return false
		}
	}
	return true
}

// SemanticCheck selects how strictly append/swap/replace source lists are
// filtered. CheckNone disables scope filtering entirely; CheckScope is
// the default for fix-site source lists.
type SemanticCheck int

const (
	CheckNone SemanticCheck = iota
	CheckScope
)

// AppendSources returns the subset of candidates usable as the donor in
// Append(dest, src): scope-compatible when check is CheckScope, the full
// list unfiltered otherwise. Weight passes through unchanged.
func (s *Store) AppendSources(dest ast.Sid, candidates []Candidate, check SemanticCheck) []Candidate {
	if check == CheckNone {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		return out
	}
	var out []Candidate
	for _, c := range candidates {
		if s.InScopeAt(dest, c.Sid) {
			out = append(out, c)
		}
	}
	return out
}

// SwapSources returns the subset of candidates usable as the other half of
// Swap(dest, src): scope-compatible in both directions, src != dest, and
// (to eliminate symmetric duplicates) only src > dest — callers enumerating
// every pair should iterate dest ascending and rely on this to avoid
// emitting both (x, y) and (y, x).
func (s *Store) SwapSources(dest ast.Sid, candidates []Candidate, check SemanticCheck) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Sid == dest || c.Sid <= dest {
			continue
		}
		if check == CheckScope && !(s.InScopeAt(dest, c.Sid) && s.InScopeAt(c.Sid, dest)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ReplaceSources returns the subset of candidates usable as the donor in
// Replace(dest, src): scope-compatible, src != dest.
func (s *Store) ReplaceSources(dest ast.Sid, candidates []Candidate, check SemanticCheck) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Sid == dest {
			continue
		}
		if check == CheckScope && !s.InScopeAt(dest, c.Sid) {
			continue
		}
		out = append(out, c)
	}
	return out
}
