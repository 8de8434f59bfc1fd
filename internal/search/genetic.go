// SPDX-License-Identifier: Apache-2.0
package search

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"repairengine/internal/ast"
	"repairengine/internal/atomstore"
	"repairengine/internal/editops"
	"repairengine/internal/fitness"
	"repairengine/internal/localization"
	"repairengine/internal/representation"
)

// Config holds every genetic-algorithm parameter a deme runs with. Zero
// values are never valid operating parameters (a zero PopSize, for
// instance, makes RunGenetic degenerate immediately); the caller's config
// layer is responsible for populating every field.
type Config struct {
	Generations int
	PopSize     int

	MutRate          float64
	SubatomMutRate   float64
	SubatomConstRate float64
	CrossRate        float64
	ProMut           int

	TournamentK int
	TournamentP float64

	// SplitSearch restricts mutate to ids satisfying id mod NumComps ==
	// CompID, the distributed coordinator's search-space partitioning.
	// NumComps <= 1 makes it a no-op regardless of SplitSearch.
	SplitSearch bool
	NumComps    int
	CompID      int

	Check atomstore.SemanticCheck
}

// Result is one deme's outcome after RunGenetic returns, whether it found a
// solution or simply ran out of generations.
type Result struct {
	Population  []fitness.Record
	Solution    *fitness.Record
	Generations int
}

// RunGenetic drives the generational pipeline described in the teacher's
// design notes: evaluate, tournament-select, cross, mutate, repeat. seed
// lets a distributed deme resume from an incoming exchange; nil or empty
// means start from the original program alone. This is the cold-start
// entrypoint: it builds PopSize individuals from seed plus fresh mutations
// of base before running a single generation. A distributed round that
// already has a complete population to resume from (incoming exchange
// variants plus its own retained incumbents) should call
// RunGeneticFromPopulation instead, which skips population-building
// entirely.
func RunGenetic(rng *rand.Rand, base representation.Representation, fault, fix localization.List, cfg Config, eval fitness.Evaluator, positiveTestCount int, seed []representation.Representation) (Result, error) {
	pop, err := buildInitialPopulation(rng, base, seed, fault, fix, cfg)
	if err != nil {
		return Result{}, err
	}
	return RunGeneticFromPopulation(rng, base, fault, fix, cfg, eval, positiveTestCount, pop), nil
}

// RunGeneticFromPopulation runs cfg.Generations of the GA pipeline starting
// from pop exactly as given, with no seeding or top-up — the shape a
// distributed deme's population takes after an exchange round, where
// len(pop) is already PopSize (variants_exchanged incoming plus
// pop_size-variants_exchanged retained).
func RunGeneticFromPopulation(rng *rand.Rand, base representation.Representation, fault, fix localization.List, cfg Config, eval fitness.Evaluator, positiveTestCount int, pop []representation.Representation) Result {
	var records []fitness.Record
	for gen := 0; gen < cfg.Generations; gen++ {
		records = evaluateAll(pop, eval)
		if sol, ok := firstSolution(records, positiveTestCount); ok {
			return Result{Population: records, Solution: &sol, Generations: gen}
		}

		parents := tournamentSelect(rng, records, cfg.TournamentK, cfg.TournamentP, cfg.PopSize)
		children := crossGeneration(rng, base, parents, fault, cfg.CrossRate)
		for i := range children {
			children[i] = mutate(rng, children[i], fault, fix, cfg)
		}
		pop = children
	}

	records = evaluateAll(pop, eval)
	sol, ok := firstSolution(records, positiveTestCount)
	result := Result{Population: records, Generations: cfg.Generations}
	if ok {
		result.Solution = &sol
	}
	return result
}

// buildInitialPopulation seeds the population per the teacher's design: an
// incoming seed (if any) plus one copy of the original, topped up to
// PopSize with freshly mutated copies of the original. A seed of size
// PopSize or larger leaves no room for the mandatory original copy and is
// rejected outright.
func buildInitialPopulation(rng *rand.Rand, base representation.Representation, seed []representation.Representation, fault, fix localization.List, cfg Config) ([]representation.Representation, error) {
	if len(seed) > cfg.PopSize-1 {
		return nil, fmt.Errorf("search: seed population of %d exceeds pop_size-1 (%d)", len(seed), cfg.PopSize-1)
	}

	pop := make([]representation.Representation, 0, cfg.PopSize)
	pop = append(pop, seed...)
	pop = append(pop, base.Clone())
	for len(pop) < cfg.PopSize {
		pop = append(pop, mutate(rng, base.Clone(), fault, fix, cfg))
	}
	return pop, nil
}

func evaluateAll(pop []representation.Representation, eval fitness.Evaluator) []fitness.Record {
	out := make([]fitness.Record, len(pop))
	for i, v := range pop {
		out[i] = fitness.Record{Variant: v, Score: eval.Evaluate(v)}
	}
	return out
}

func firstSolution(records []fitness.Record, positiveTestCount int) (fitness.Record, bool) {
	for _, r := range records {
		if fitness.IsSolution(r.Score, positiveTestCount) {
			return r, true
		}
	}
	return fitness.Record{}, false
}

// tournamentSelect draws PopSize parents (with replacement across draws).
// Each draw samples k individuals uniformly at random (with replacement),
// ranks them by descending fitness, then walks the ranking accepting the
// i-th entry with probability p*(1-p)^i. A walk that accepts nothing
// restarts with a fresh draw.
func tournamentSelect(rng *rand.Rand, records []fitness.Record, k int, p float64, popSize int) []representation.Representation {
	out := make([]representation.Representation, 0, popSize)
	for len(out) < popSize {
		draw := make([]fitness.Record, k)
		for i := 0; i < k; i++ {
			draw[i] = records[rng.Intn(len(records))]
		}
		sort.SliceStable(draw, func(i, j int) bool { return draw[i].Score > draw[j].Score })

		for i, d := range draw {
			prob := p * math.Pow(1-p, float64(i))
			if rng.Float64() <= prob {
				out = append(out, d.Variant)
				break
			}
		}
	}
	return out
}

// crossGeneration pairs parents into floor(len/2) couples, crosses each
// with probability crossRate, and carries any odd parent through
// unmodified.
func crossGeneration(rng *rand.Rand, base representation.Representation, parents []representation.Representation, fault localization.List, crossRate float64) []representation.Representation {
	out := make([]representation.Representation, 0, len(parents))
	pairs := len(parents) / 2
	for i := 0; i < pairs; i++ {
		p1, p2 := parents[2*i], parents[2*i+1]
		if rng.Float64() < crossRate {
			c1, c2 := crossover(rng, base, p1, p2, fault)
			out = append(out, c1, c2)
		} else {
			out = append(out, p1.Clone(), p2.Clone())
		}
	}
	if len(parents)%2 == 1 {
		out = append(out, parents[len(parents)-1].Clone())
	}
	return out
}

// crossover performs one-point crossover over the shared fault-localization
// id sequence: a cut point splits the sequence into an exchanged prefix and
// an untouched suffix. Since every variant mutates against the same
// pristine store, "the statement body at id m[i]" is realized here as
// *whichever edits that parent's history recorded against position m[i]*
// rather than a materialized snippet of text — exchanging those edit
// buckets between children reproduces the same effect without requiring a
// donor-by-value edit kind, and keeps every edit's own donor resolution
// anchored to the pristine store like every other mutation in this engine.
func crossover(rng *rand.Rand, base, p1, p2 representation.Representation, fault localization.List) (representation.Representation, representation.Representation) {
	m := fault.Sids()
	if len(m) == 0 {
		return p1.Clone(), p2.Clone()
	}
	cut := rng.Intn(len(m))
	crossSet := make(map[ast.Sid]bool, cut+1)
	for i := 0; i <= cut; i++ {
		crossSet[ast.Sid(m[i])] = true
	}

	order1, buckets1 := bucketHistory(p1.History())
	order2, buckets2 := bucketHistory(p2.History())
	positions := mergeOrder(order1, order2)

	var h1, h2 editops.History
	for _, pos := range positions {
		if crossSet[pos] {
			h1 = append(h1, buckets2[pos]...)
			h2 = append(h2, buckets1[pos]...)
		} else {
			h1 = append(h1, buckets1[pos]...)
			h2 = append(h2, buckets2[pos]...)
		}
	}

	c1 := base.Clone()
	applyAll(c1, h1)
	c2 := base.Clone()
	applyAll(c2, h2)
	return c1, c2
}

// bucketHistory groups h's edits by the position each primarily targets
// (Swap included, bucketed only under its X side), preserving first-seen
// position order.
func bucketHistory(h editops.History) ([]ast.Sid, map[ast.Sid]editops.History) {
	var order []ast.Sid
	buckets := make(map[ast.Sid]editops.History)
	for _, e := range h {
		if _, ok := buckets[e.X]; !ok {
			order = append(order, e.X)
		}
		buckets[e.X] = append(buckets[e.X], e)
	}
	return order, buckets
}

// mergeOrder returns a ∪ b, a's entries first, preserving each slice's
// internal order and dropping duplicates.
func mergeOrder(a, b []ast.Sid) []ast.Sid {
	seen := make(map[ast.Sid]bool, len(a)+len(b))
	out := make([]ast.Sid, 0, len(a)+len(b))
	for _, s := range append(append([]ast.Sid{}, a...), b...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func applyAll(v representation.Representation, h editops.History) {
	for _, e := range h {
		// A crossed-in edit can legally fail only if the donor store
		// changed shape between the two parents, which never happens
		// here (one store per run): an error means a programming bug
		// upstream, so it is surfaced by simply leaving the edit out
		// rather than aborting the whole generation.
		_ = v.Apply(e)
	}
}
