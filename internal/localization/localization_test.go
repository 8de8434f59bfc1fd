package localization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"repairengine/internal/atomstore"
)

const dupTextSrc = `fn f(a: U64) -> U64 {
	let x = a;
	let z = a;
	return x;
}`

func TestFixLocalizationCanonicalizesIdenticalText(t *testing.T) {
	store, err := atomstore.Load(map[string]string{"f.rp": dupTextSrc})
	assert.NoError(t, err)

	// sid 1 ("let x = a;") and sid 2 ("let z = a;") print with different
	// names, so they stay distinct.
	fix := NewFixLocalization(store, []atomstore.Candidate{
		{Sid: 1, Weight: 0.5},
		{Sid: 2, Weight: 0.7},
		{Sid: 3, Weight: 1.0},
	})
	assert.Len(t, fix, 3, "distinct printed text must not collapse")

	// Re-run against a store whose sids 2 and 3 both print as "x = a;":
	// they collapse onto sid 2, keeping the first-seen weight.
	dupStore, err := atomstore.Load(map[string]string{"f.rp": `fn f(a: U64) -> U64 {
	let x = a;
	x = a;
	x = a;
	return x;
}`})
	assert.NoError(t, err)
	collapsed := NewFixLocalization(dupStore, []atomstore.Candidate{
		{Sid: 2, Weight: 0.5},
		{Sid: 3, Weight: 0.7},
		{Sid: 4, Weight: 1.0},
	})
	assert.Len(t, collapsed, 2, "identical printed text must collapse")
	assert.Equal(t, 2, int(collapsed[0].Sid))
}

func TestFaultLocalizationNeverCanonicalizes(t *testing.T) {
	fault := NewFaultLocalization([]atomstore.Candidate{{Sid: 5, Weight: 1}, {Sid: 5, Weight: 2}})
	assert.Len(t, fault, 2, "fault localization keeps duplicate sids verbatim")
}

func TestRouletteAlwaysPicksSoleEntry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	l := List{{Sid: 9, Weight: 3}}
	c, ok := Roulette(rng, l)
	assert.True(t, ok)
	assert.Equal(t, l[0].Sid, c.Sid)
}

func TestRouletteEmptyReturnsFalse(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ok := Roulette(rng, nil)
	assert.False(t, ok)
}

func TestFilterModuloPartitionsSearchSpace(t *testing.T) {
	l := List{{Sid: 1, Weight: 1}, {Sid: 2, Weight: 1}, {Sid: 3, Weight: 1}, {Sid: 4, Weight: 1}}
	even := l.FilterModulo(2, 0)
	for _, c := range even {
		assert.Equal(t, 0, int(c.Sid)%2)
	}
	odd := l.FilterModulo(2, 1)
	for _, c := range odd {
		assert.Equal(t, 1, int(c.Sid)%2)
	}
}

func TestWeightedSampleDedupesBeforeDrawing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := List{{Sid: 1, Weight: 1}, {Sid: 1, Weight: 1}, {Sid: 2, Weight: 1}}
	samples := WeightedSample(rng, l, 10)
	assert.Len(t, samples, 10)
	for _, s := range samples {
		assert.Contains(t, []int{1, 2}, int(s))
	}
}
