package elo

import (
	"math"
	"testing"

	"mathquest_backend/internal/model"
)

func TestExpectedScore(t *testing.T) {
	// Equal ratings → 0.5
	got := ExpectedScore(1000, 1000)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ExpectedScore(1000, 1000) = %f, want 0.5", got)
	}

	// 200-point edge → ~0.76
	got = ExpectedScore(1200, 1000)
	if math.Abs(got-0.7597) > 0.001 {
		t.Errorf("ExpectedScore(1200, 1000) = %f, want ~0.76", got)
	}

	// Symmetry: P(A beats B) + P(B beats A) = 1
	a, b := ExpectedScore(1432, 987), ExpectedScore(987, 1432)
	if math.Abs(a+b-1.0) > 1e-9 {
		t.Errorf("expectations not complementary: %f + %f", a, b)
	}
}

func TestKFactorBoundaries(t *testing.T) {
	tests := []struct {
		events int
		want   int
	}{
		{0, 64},
		{9, 64},
		{10, 32},
		{49, 32},
		{50, 16},
		{199, 16},
		{200, 8},
		{10000, 8},
	}

	for _, tt := range tests {
		if got := KFactor(tt.events); got != tt.want {
			t.Errorf("KFactor(%d) = %d, want %d", tt.events, got, tt.want)
		}
	}

	// Non-increasing in event count
	prev := KFactor(0)
	for n := 1; n <= 300; n++ {
		k := KFactor(n)
		if k > prev {
			t.Fatalf("KFactor increased at %d: %d > %d", n, k, prev)
		}
		prev = k
	}
}

func TestVoteScore(t *testing.T) {
	if VoteScore(model.VoteEasier) != 1 {
		t.Error("easier must score 1 for the previous problem")
	}
	if VoteScore(model.VoteHarder) != 0 {
		t.Error("harder must score 0 for the previous problem")
	}
	if VoteScore(model.VoteSame) != 0.5 {
		t.Error("same must score 0.5")
	}
}

func TestUpdatePairScenario(t *testing.T) {
	// Both at default, 0 votes, "easier" → k=64, expected=0.5, delta=32.
	a, b := UpdatePair(1000, 1000, 1, 64)
	if a != 1032 || b != 968 {
		t.Errorf("UpdatePair(1000, 1000, 1, 64) = (%d, %d), want (1032, 968)", a, b)
	}

	// Same inputs with a "same" vote and halved K → no movement.
	a, b = UpdatePair(1000, 1000, 0.5, 32)
	if a != 1000 || b != 1000 {
		t.Errorf("UpdatePair(1000, 1000, 0.5, 32) = (%d, %d), want unchanged", a, b)
	}
}

func TestUpdatePairZeroSumAndBoundedDelta(t *testing.T) {
	ratings := []int{500, 800, 1000, 1350, 2000, 3900}
	ks := []int{8, 16, 32, 64}
	scores := []float64{0, 0.5, 1}

	for _, ra := range ratings {
		for _, rb := range ratings {
			for _, k := range ks {
				for _, s := range scores {
					na, nb := UpdatePair(ra, rb, s, k)
					if abs(na-ra) > k || abs(nb-rb) > k {
						t.Fatalf("delta exceeds K: (%d,%d) score %v k %d → (%d,%d)", ra, rb, s, k, na, nb)
					}
					// Zero-sum holds away from the clamp boundary.
					if ra > ProblemRatingMin+k && ra < ProblemRatingMax-k &&
						rb > ProblemRatingMin+k && rb < ProblemRatingMax-k {
						if na+nb != ra+rb {
							t.Fatalf("not zero-sum: (%d,%d) score %v k %d → (%d,%d)", ra, rb, s, k, na, nb)
						}
					}
				}
			}
		}
	}
}

func TestUpdatePairClamping(t *testing.T) {
	// A loss at the floor clamps instead of erroring.
	a, _ := UpdatePair(ProblemRatingMin, 1000, 0, 64)
	if a != ProblemRatingMin {
		t.Errorf("floor clamp: got %d, want %d", a, ProblemRatingMin)
	}

	_, b := UpdatePair(1000, ProblemRatingMax, 1, 64)
	if b > ProblemRatingMax {
		t.Errorf("ceiling clamp: got %d", b)
	}
}

func TestUserDeltaScenario(t *testing.T) {
	// New user (k=64) at 1000 beats a 1200-rated problem → +49.
	delta := UserDelta(1000, 1200, true, 64)
	if delta != 49 {
		t.Errorf("UserDelta(1000, 1200, correct, 64) = %d, want 49", delta)
	}

	// Wrong answer moves the rating down.
	if d := UserDelta(1000, 1000, false, 64); d != -32 {
		t.Errorf("UserDelta(1000, 1000, wrong, 64) = %d, want -32", d)
	}
}

func TestSeedRatingRoundTrip(t *testing.T) {
	for seed := 1; seed <= 20; seed++ {
		rating := SeedRating(seed)
		if got := RatingLevel(rating); got != seed {
			t.Errorf("RatingLevel(SeedRating(%d)) = %d", seed, got)
		}
	}

	if SeedRating(1) != 1000 {
		t.Errorf("SeedRating(1) = %d, want 1000", SeedRating(1))
	}
	if SeedRating(20) != 2140 {
		t.Errorf("SeedRating(20) = %d, want 2140", SeedRating(20))
	}

	// Live ratings outside the seed range still land in 1-20.
	if RatingLevel(ProblemRatingMin) != 1 {
		t.Error("levels must clamp at 1")
	}
	if RatingLevel(ProblemRatingMax) != 20 {
		t.Error("levels must clamp at 20")
	}
}

func TestClampBoundsDifferPerEntity(t *testing.T) {
	if ClampUser(0) != UserRatingMin {
		t.Errorf("ClampUser(0) = %d, want %d", ClampUser(0), UserRatingMin)
	}
	if ClampProblem(0) != ProblemRatingMin {
		t.Errorf("ClampProblem(0) = %d, want %d", ClampProblem(0), ProblemRatingMin)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
