// SPDX-License-Identifier: Apache-2.0
package distributed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"repairengine/internal/atomstore"
	"repairengine/internal/config"
	"repairengine/internal/editops"
	"repairengine/internal/fitness"
	"repairengine/internal/localization"
	"repairengine/internal/representation"
)

const twoStmtSrc = `fn f(a: U64) -> U64 {
	let x = a + 1;
	return x;
}`

func loadBase(t *testing.T) (*atomstore.Store, representation.Representation) {
	t.Helper()
	s, err := atomstore.Load(map[string]string{"f.rp": twoStmtSrc})
	assert.NoError(t, err)
	return s, representation.NewPatch(s, false)
}

// constEvaluator always returns Score, regardless of the variant — enough
// to drive a coordinator round without shelling out to a real compiler.
type constEvaluator struct{ score float64 }

func (e constEvaluator) Evaluate(representation.Representation) float64 { return e.score }

func TestMessageRoundTripsAVariantsHistory(t *testing.T) {
	store, base := loadBase(t)
	v := base.Clone()
	assert.NoError(t, v.Apply(editops.NewDelete(1)))
	assert.NoError(t, v.Apply(editops.NewAppend(2, 1)))

	msg, err := EncodeMessage([]representation.Representation{v})
	assert.NoError(t, err)

	decoded, err := DecodeMessage(msg, representation.NewPatch(store, false), nil)
	assert.NoError(t, err)
	assert.Len(t, decoded, 1)
	assert.Equal(t, v.Fingerprint(), decoded[0].Fingerprint())
}

func TestMessageRoundTripsMultipleVariantsJoinedByDot(t *testing.T) {
	store, base := loadBase(t)
	v1 := base.Clone()
	assert.NoError(t, v1.Apply(editops.NewDelete(1)))
	v2 := base.Clone()
	assert.NoError(t, v2.Apply(editops.NewDelete(2)))

	msg, err := EncodeMessage([]representation.Representation{v1, v2})
	assert.NoError(t, err)

	decoded, err := DecodeMessage(msg, representation.NewPatch(store, false), nil)
	assert.NoError(t, err)
	assert.Len(t, decoded, 2)
	assert.Equal(t, v1.Fingerprint(), decoded[0].Fingerprint())
	assert.Equal(t, v2.Fingerprint(), decoded[1].Fingerprint())
}

func TestDecodeMessageEmptyStringIsNoVariants(t *testing.T) {
	store, _ := loadBase(t)
	decoded, err := DecodeMessage("  ", representation.NewPatch(store, false), nil)
	assert.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDiversitySelectCoversDistinctEditsBeforePadding(t *testing.T) {
	store, base := loadBase(t)

	mk := func(e editops.Edit, score float64) fitness.Record {
		v := base.Clone()
		assert.NoError(t, v.Apply(e))
		return fitness.Record{Variant: v, Score: score}
	}
	pool := []fitness.Record{
		mk(editops.NewDelete(1), 1),
		mk(editops.NewDelete(1), 1), // duplicate token, should not count twice
		mk(editops.NewDelete(2), 1),
	}

	selected := DiversitySelect(pool, 2, representation.NewPatch(store, false), 1)
	assert.Len(t, selected, 2)

	seenTokens := make(map[string]bool)
	for _, r := range selected {
		for _, e := range r.Variant.History() {
			s, err := editops.EncodeHistory(editops.History{e})
			assert.NoError(t, err)
			seenTokens[s] = true
		}
	}
	assert.True(t, seenTokens["d(1)"])
	assert.True(t, seenTokens["d(2)"])
}

func TestDiversitySelectPadsWithOriginalWhenPoolExhausted(t *testing.T) {
	store, base := loadBase(t)
	pool := []fitness.Record{
		{Variant: func() representation.Representation {
			v := base.Clone()
			assert.NoError(t, v.Apply(editops.NewDelete(1)))
			return v
		}(), Score: 1},
	}

	selected := DiversitySelect(pool, 3, representation.NewPatch(store, false), 1)
	assert.Len(t, selected, 3)
	assert.Empty(t, selected[1].Variant.History())
	assert.Empty(t, selected[2].Variant.History())
}

func TestNewDemesGivesEachDemeItsOwnShellEvaluatorWorkDir(t *testing.T) {
	_, base := loadBase(t)
	fault := localization.NewFaultLocalization([]atomstore.Candidate{{Sid: 1, Weight: 1.0}})
	fix := localization.NewFixLocalization(base.Store(), []atomstore.Candidate{{Sid: 1, Weight: 1.0}})

	sh, err := fitness.NewShellEvaluator(t.TempDir(), "true", nil, "PASS", 1, 0)
	assert.NoError(t, err)

	cfg := config.Default()
	cfg.NumComps = 3
	demes := NewDemes(rand.New(rand.NewSource(1)), base, fault, fix, cfg, sh)

	seen := make(map[string]bool, len(demes))
	for _, d := range demes {
		deme, ok := d.Eval.(*fitness.ShellEvaluator)
		assert.True(t, ok)
		assert.NotSame(t, sh, deme)
		assert.False(t, seen[deme.WorkDir], "deme %d reused another deme's WorkDir", d.ID)
		seen[deme.WorkDir] = true
	}
}

func TestNewDemesSharesANonShellEvaluatorAcrossDemes(t *testing.T) {
	_, base := loadBase(t)
	fault := localization.NewFaultLocalization([]atomstore.Candidate{{Sid: 1, Weight: 1.0}})
	fix := localization.NewFixLocalization(base.Store(), []atomstore.Candidate{{Sid: 1, Weight: 1.0}})

	cfg := config.Default()
	cfg.NumComps = 2
	eval := constEvaluator{score: 1}
	demes := NewDemes(rand.New(rand.NewSource(1)), base, fault, fix, cfg, eval)

	for _, d := range demes {
		assert.Equal(t, eval, d.Eval)
	}
}

func TestRunFindsSolutionAcrossDemesWithoutLeakingGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, base := loadBase(t)
	fault := localization.NewFaultLocalization([]atomstore.Candidate{{Sid: 1, Weight: 1.0}, {Sid: 2, Weight: 1.0}})
	fix := localization.NewFixLocalization(base.Store(), []atomstore.Candidate{{Sid: 1, Weight: 1.0}, {Sid: 2, Weight: 1.0}})

	cfg := config.Default()
	cfg.NumComps = 2
	cfg.PopSize = 4
	cfg.Generations = 2
	cfg.GenPerExchange = 1
	cfg.VariantsExchanged = 1

	eval := constEvaluator{score: 1}
	demes := NewDemes(rand.New(rand.NewSource(1)), base, fault, fix, cfg, eval)

	result, err := Run(demes, cfg, 1, nil)
	assert.NoError(t, err)
	assert.NotNil(t, result.Solution)
}

func TestRunExhaustsGenerationsWithoutSolution(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, base := loadBase(t)
	fault := localization.NewFaultLocalization([]atomstore.Candidate{{Sid: 1, Weight: 1.0}, {Sid: 2, Weight: 1.0}})
	fix := localization.NewFixLocalization(base.Store(), []atomstore.Candidate{{Sid: 1, Weight: 1.0}, {Sid: 2, Weight: 1.0}})

	cfg := config.Default()
	cfg.NumComps = 2
	cfg.PopSize = 4
	cfg.Generations = 2
	cfg.GenPerExchange = 1
	cfg.VariantsExchanged = 1

	eval := constEvaluator{score: 0}
	demes := NewDemes(rand.New(rand.NewSource(1)), base, fault, fix, cfg, eval)

	result, err := Run(demes, cfg, 1, nil)
	assert.NoError(t, err)
	assert.Nil(t, result.Solution)
	assert.Equal(t, cfg.Generations, result.Generations)
}
