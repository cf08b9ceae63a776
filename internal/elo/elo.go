package elo

import (
	"math"

	"mathquest_backend/internal/model"
)

// Rating bounds. Problem and user ratings clamp to different floors; the
// bounds are deliberate and documented here rather than shared.
const (
	DefaultRating = 1000

	ProblemRatingMin = 400
	ProblemRatingMax = 4000

	UserRatingMin = 100
	UserRatingMax = 4000
)

// ExpectedScore is the standard logistic Elo expectation for A against B.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
}

// KFactor is the maximum per-event rating swing, shrinking as observations
// accumulate so sparse entities converge fast and settle later.
func KFactor(events int) int {
	switch {
	case events < 10:
		return 64
	case events < 50:
		return 32
	case events < 200:
		return 16
	default:
		return 8
	}
}

// VoteScore maps a pairwise vote to the score of the *previous* problem in
// the pair: the current problem being judged easier means the previous one
// won the difficulty comparison.
func VoteScore(v model.Vote) float64 {
	switch v {
	case model.VoteEasier:
		return 1
	case model.VoteHarder:
		return 0
	default:
		return 0.5
	}
}

// UpdatePair applies one comparison to a pair of problem ratings.
// scoreA is the score of A; the delta is rounded half away from zero and the
// update is zero-sum before clamping. Clamping at the bounds can break exact
// zero-sum; that is accepted behavior.
func UpdatePair(ratingA, ratingB int, scoreA float64, k int) (int, int) {
	delta := round(float64(k) * (scoreA - ExpectedScore(ratingA, ratingB)))
	return ClampProblem(ratingA + delta), ClampProblem(ratingB - delta)
}

// UserDelta is the signed rating change for a user after a decisive attempt.
func UserDelta(userRating, problemRating int, correct bool, k int) int {
	score := 0.0
	if correct {
		score = 1.0
	}
	return round(float64(k) * (score - ExpectedScore(userRating, problemRating)))
}

func ClampProblem(rating int) int {
	return clamp(rating, ProblemRatingMin, ProblemRatingMax)
}

func ClampUser(rating int) int {
	return clamp(rating, UserRatingMin, UserRatingMax)
}

// SeedRating maps an author-assigned 1-20 seed difficulty onto the rating
// scale, used until live votes produce a real rating.
func SeedRating(seed int) int {
	return DefaultRating + (seed-1)*60
}

// RatingLevel is the inverse of SeedRating, collapsing a live rating back to
// a 1-20 difficulty level for the scheduler.
func RatingLevel(rating int) int {
	level := round(float64(rating-DefaultRating)/60.0) + 1
	return clamp(level, 1, 20)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round is half-away-from-zero, which math.Round implements; kept as a named
// helper because the delta rounding rule is load-bearing for reproducibility.
func round(x float64) int {
	return int(math.Round(x))
}
