package service

import (
	"math/rand"

	"mathquest_backend/internal/model"
)

// Candidate is one corpus entry as the scheduler sees it: a problem id and
// its 1-20 difficulty proxy (live rating level, or seed difficulty when
// unrated).
type Candidate struct {
	ID    string
	Level int
}

// Widening bounds for the selection fallbacks.
const (
	maxPickRadius    = 10
	repeatPickRadius = 3
)

// PickNext chooses the next problem for a target difficulty.
//
// Preference order: unseen problems at the exact target; unseen problems at
// the nearest non-empty radius up to 10; any problem (repeats allowed) within
// radius 3; exhaustion. The pick within the chosen set is uniform.
func PickNext(candidates []Candidate, target int, seen map[string]bool, rng *rand.Rand) (string, bool) {
	for radius := 0; radius <= maxPickRadius; radius++ {
		pool := filter(candidates, target, radius, seen)
		if len(pool) > 0 {
			return pool[intn(rng, len(pool))].ID, true
		}
	}

	// Everything nearby was seen; allow repeats close to the target.
	pool := filter(candidates, target, repeatPickRadius, nil)
	if len(pool) > 0 {
		return pool[intn(rng, len(pool))].ID, true
	}

	return "", false
}

// NextTarget is the difficulty ratchet: one step up on success, one step down
// otherwise, bounded to [1, 20]. It only steers what the scheduler shows
// next, never the persisted ratings.
func NextTarget(target int, outcome model.Outcome) int {
	switch outcome {
	case model.OutcomeCorrect:
		if target < 20 {
			return target + 1
		}
	case model.OutcomeWrong, model.OutcomeGiveUp:
		if target > 1 {
			return target - 1
		}
	}
	return target
}

func filter(candidates []Candidate, target, radius int, seen map[string]bool) []Candidate {
	var pool []Candidate
	for _, c := range candidates {
		if seen != nil && seen[c.ID] {
			continue
		}
		d := c.Level - target
		if d < 0 {
			d = -d
		}
		if d <= radius {
			pool = append(pool, c)
		}
	}
	return pool
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}
