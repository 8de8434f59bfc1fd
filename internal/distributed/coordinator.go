// SPDX-License-Identifier: Apache-2.0
package distributed

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"repairengine/internal/config"
	"repairengine/internal/fitness"
	"repairengine/internal/localization"
	"repairengine/internal/representation"
	"repairengine/internal/search"
)

// Deme is one search-space partition's worth of state: its own rng, its own
// slice of fault/fix localization (already filtered to this deme's ids when
// split_search is on), and the population it carries from round to round.
type Deme struct {
	ID         int
	Base       representation.Representation
	Fault      localization.List
	Fix        localization.List
	SearchCfg  search.Config
	Eval       fitness.Evaluator
	Rng        *rand.Rand
	Population []representation.Representation
}

// NewDemes splits fault/fix per cfg.SplitSearch (a no-op copy when split
// search is off) and builds one Deme per component, 0-indexed, each with its
// own rng seeded deterministically off the caller's rng so a run is
// reproducible given a fixed master seed, and its own evaluator instance (see
// perDemeEvaluator) so no shared mutable state crosses a deme boundary once
// Run starts evaluating demes concurrently.
func NewDemes(masterRng *rand.Rand, base representation.Representation, fault, fix localization.List, cfg config.Config, eval fitness.Evaluator) []*Deme {
	n := cfg.NumComps
	if n < 1 {
		n = 1
	}
	demes := make([]*Deme, n)
	for i := 0; i < n; i++ {
		f, x := fault, fix
		if cfg.SplitSearch {
			f = fault.FilterModulo(n, i)
			x = fix.FilterModulo(n, i)
		}
		demes[i] = &Deme{
			ID:        i,
			Base:      base,
			Fault:     f,
			Fix:       x,
			SearchCfg: cfg.SearchConfig(i),
			Eval:      perDemeEvaluator(eval, i),
			Rng:       rand.New(rand.NewSource(masterRng.Int63())),
		}
	}
	return demes
}

// perDemeEvaluator gives deme id its own evaluator instance. A
// *fitness.ShellEvaluator writes each variant to disk before exec'ing a
// build command, so it gets its own scratch subdirectory and result cache
// via ForDeme; any other Evaluator is assumed to hold no per-call mutable
// state (a pure scoring function) and is shared across demes unchanged.
func perDemeEvaluator(eval fitness.Evaluator, id int) fitness.Evaluator {
	if sh, ok := eval.(*fitness.ShellEvaluator); ok {
		return sh.ForDeme(id)
	}
	return eval
}

// CoordinatorResult is the outcome of a full distributed run: either some
// deme's Solution, or nil after every deme exhausted its generation budget.
// RunID tags every round's exchange messages for this run, so a warning
// logged mid-exchange can be correlated back to the run that produced it
// without threading a caller-supplied identifier through every deme.
type CoordinatorResult struct {
	RunID       string
	Solution    *fitness.Record
	SolvedDeme  int
	Generations int
}

// Run drives num_comps demes through generations/gen_per_exchange
// exchange rounds. Within a round every deme advances gen_per_exchange
// generations concurrently (one goroutine per deme, sync.WaitGroup-gated —
// the teacher's worker-pool-plus-barrier shape, generalized from serving
// requests to running generations); between rounds each deme's outgoing
// variants travel one hop around the ring ((i+1) % num_comps) and replace
// the fraction of the receiver's next population that selectOutgoingAndRetained
// marks as exchanged. A solution found by any deme ends the run once every
// deme has finished that round; no further round starts.
func Run(demes []*Deme, cfg config.Config, positiveTestCount int, warn func(string)) (CoordinatorResult, error) {
	runID := uuid.New().String()
	n := len(demes)
	perRound := cfg.GenPerExchange
	if perRound < 1 {
		perRound = cfg.Generations
	}
	rounds := cfg.Generations / perRound
	if rounds < 1 {
		rounds = 1
	}

	// Seed every deme's starting population once, up front.
	for _, d := range demes {
		pop, err := seedPopulation(d)
		if err != nil {
			return CoordinatorResult{}, err
		}
		d.Population = pop
	}

	generationsRun := 0
	for round := 0; round < rounds; round++ {
		roundCfgs := make([]search.Config, n)
		for i, d := range demes {
			roundCfgs[i] = d.SearchCfg
			roundCfgs[i].Generations = perRound
		}

		results := make([]search.Result, n)
		var wg sync.WaitGroup
		for i, d := range demes {
			wg.Add(1)
			go func(i int, d *Deme) {
				defer wg.Done()
				results[i] = search.RunGeneticFromPopulation(d.Rng, d.Base, d.Fault, d.Fix, roundCfgs[i], d.Eval, positiveTestCount, d.Population)
			}(i, d)
		}
		wg.Wait()
		generationsRun += perRound

		for i, r := range results {
			if r.Solution != nil {
				return CoordinatorResult{RunID: runID, Solution: r.Solution, SolvedDeme: demes[i].ID, Generations: generationsRun}, nil
			}
		}

		outgoing := make([][]representation.Representation, n)
		retained := make([][]representation.Representation, n)
		for i, d := range demes {
			out, ret := selectOutgoingAndRetained(results[i].Population, cfg, d.Base)
			outgoing[i] = out
			retained[i] = ret
		}
		for i, d := range demes {
			from := (i - 1 + n) % n
			d.Population = append(append([]representation.Representation{}, retained[i]...), outgoing[from]...)
		}
	}

	return CoordinatorResult{RunID: runID, Generations: generationsRun}, nil
}

func seedPopulation(d *Deme) ([]representation.Representation, error) {
	pop, err := search.RunGenetic(d.Rng, d.Base, d.Fault, d.Fix, search.Config{Generations: 0, PopSize: d.SearchCfg.PopSize, MutRate: d.SearchCfg.MutRate, SubatomMutRate: d.SearchCfg.SubatomMutRate, SubatomConstRate: d.SearchCfg.SubatomConstRate, CrossRate: d.SearchCfg.CrossRate, ProMut: d.SearchCfg.ProMut, TournamentK: d.SearchCfg.TournamentK, TournamentP: d.SearchCfg.TournamentP, SplitSearch: d.SearchCfg.SplitSearch, NumComps: d.SearchCfg.NumComps, CompID: d.SearchCfg.CompID, Check: d.SearchCfg.Check}, d.Eval, 1<<30, nil)
	if err != nil {
		return nil, err
	}
	out := make([]representation.Representation, len(pop.Population))
	for i, r := range pop.Population {
		out[i] = r.Variant
	}
	return out, nil
}

// selectOutgoingAndRetained splits a post-round population into the
// variants sent onward around the ring and the variants this deme keeps
// for its own next round, per the exchange policy: when every individual
// is exchanged (pop_size == variants_exchanged) nothing is retained; when
// diversity selection is off, the top variants_exchanged by fitness go out
// and the rest (up to pop_size-variants_exchanged) stay; when diversity
// selection is on, the outgoing set is chosen by DiversitySelect over the
// whole population (or, for large populations, a top-2*variants_exchanged
// shortlist — avoiding an O(pop^2) token-cover pass over every individual)
// and the retained set is the best pop_size-variants_exchanged individuals
// not already sent.
func selectOutgoingAndRetained(records []fitness.Record, cfg config.Config, base representation.Representation) (outgoing, retained []representation.Representation) {
	want := cfg.VariantsExchanged
	if want <= 0 {
		return nil, variantsOf(records)
	}
	sorted := append([]fitness.Record{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	if want >= len(sorted) {
		return variantsOf(sorted), nil
	}

	var outRecords []fitness.Record
	if cfg.DiversitySelection {
		shortlist := sorted
		if len(shortlist) > 2*want {
			shortlist = shortlist[:2*want]
		}
		outRecords = diversitySelectRecords(shortlist, want, base)
	} else {
		outRecords = sorted[:want]
	}

	sent := make(map[string]bool, len(outRecords))
	for _, r := range outRecords {
		sent[r.Variant.Fingerprint()] = true
	}
	keepWant := cfg.PopSize - want
	var keepRecords []fitness.Record
	for _, r := range sorted {
		if len(keepRecords) >= keepWant {
			break
		}
		if sent[r.Variant.Fingerprint()] {
			continue
		}
		keepRecords = append(keepRecords, r)
	}

	return variantsOf(outRecords), variantsOf(keepRecords)
}

func diversitySelectRecords(pool []fitness.Record, want int, base representation.Representation) []fitness.Record {
	bestScore := 0.0
	for _, r := range pool {
		if r.Score > bestScore {
			bestScore = r.Score
		}
	}
	return DiversitySelect(pool, want, base, int(bestScore))
}

func variantsOf(records []fitness.Record) []representation.Representation {
	out := make([]representation.Representation, len(records))
	for i, r := range records {
		out[i] = r.Variant
	}
	return out
}
