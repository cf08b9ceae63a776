package service

import (
	"math/rand"
	"testing"

	"mathquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestPickNextPrefersExactTarget(t *testing.T) {
	candidates := []Candidate{
		{ID: "p10a", Level: 10},
		{ID: "p10b", Level: 10},
		{ID: "p12", Level: 12},
	}
	seen := map[string]bool{"p10a": true}

	// The remaining exact-difficulty problem wins over the radius-2 one.
	id, ok := PickNext(candidates, 10, seen, rng())
	require.True(t, ok)
	assert.Equal(t, "p10b", id)
}

func TestPickNextWidensToNearestRadius(t *testing.T) {
	candidates := []Candidate{
		{ID: "far", Level: 16},
		{ID: "near", Level: 12},
	}

	id, ok := PickNext(candidates, 10, map[string]bool{}, rng())
	require.True(t, ok)
	assert.Equal(t, "near", id, "radius 2 must be tried before radius 6")
}

func TestPickNextNeverRepeatsWhileUnseenRemain(t *testing.T) {
	candidates := []Candidate{
		{ID: "seen", Level: 10},
		{ID: "unseen", Level: 18},
	}
	seen := map[string]bool{"seen": true}

	// The unseen problem is 8 levels away but still beats a repeat.
	id, ok := PickNext(candidates, 10, seen, rng())
	require.True(t, ok)
	assert.Equal(t, "unseen", id)
}

func TestPickNextAllowsRepeatsNearTargetWhenExhausted(t *testing.T) {
	candidates := []Candidate{
		{ID: "close", Level: 11},
		{ID: "far", Level: 20},
	}
	seen := map[string]bool{"close": true, "far": true}

	// "far" is 10 levels off but unseen, so it still wins before any repeat.
	id, ok := PickNext(candidates, 10, map[string]bool{"close": true}, rng())
	require.True(t, ok)
	assert.Equal(t, "far", id, "unseen beyond repeat radius still wins inside radius 10")

	id, ok = PickNext([]Candidate{{ID: "close", Level: 11}}, 10, seen, rng())
	require.True(t, ok)
	assert.Equal(t, "close", id)
}

func TestPickNextExhaustion(t *testing.T) {
	// Only candidate is 9 levels off: outside the repeat radius once seen.
	candidates := []Candidate{{ID: "far", Level: 19}}
	seen := map[string]bool{"far": true}

	_, ok := PickNext(candidates, 10, seen, rng())
	assert.False(t, ok)

	_, ok = PickNext(nil, 10, map[string]bool{}, rng())
	assert.False(t, ok)
}

func TestPickNextUniformAmongPool(t *testing.T) {
	candidates := []Candidate{
		{ID: "a", Level: 10},
		{ID: "b", Level: 10},
		{ID: "c", Level: 10},
	}

	picks := map[string]int{}
	r := rng()
	for i := 0; i < 300; i++ {
		id, ok := PickNext(candidates, 10, map[string]bool{}, r)
		require.True(t, ok)
		picks[id]++
	}

	assert.Len(t, picks, 3, "every exact candidate must be reachable")
}

func TestNextTargetRatchet(t *testing.T) {
	assert.Equal(t, 11, NextTarget(10, model.OutcomeCorrect))
	assert.Equal(t, 9, NextTarget(10, model.OutcomeWrong))
	assert.Equal(t, 9, NextTarget(10, model.OutcomeGiveUp))
}

func TestNextTargetConvergesAndStays(t *testing.T) {
	target := 10
	for i := 0; i < 30; i++ {
		target = NextTarget(target, model.OutcomeCorrect)
	}
	assert.Equal(t, 20, target)

	for i := 0; i < 50; i++ {
		target = NextTarget(target, model.OutcomeWrong)
	}
	assert.Equal(t, 1, target)

	assert.Equal(t, 1, NextTarget(1, model.OutcomeGiveUp))
	assert.Equal(t, 20, NextTarget(20, model.OutcomeCorrect))
}
