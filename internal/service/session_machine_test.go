package service

import (
	"testing"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *model.PracticeSession {
	return &model.PracticeSession{
		State:            model.StateOnboarding,
		TargetDifficulty: 10,
		StartDifficulty:  10,
	}
}

func TestConfirmDifficulty(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 7))
	assert.Equal(t, model.StateSolving, s.State)
	assert.Equal(t, 7, s.TargetDifficulty)
	assert.Equal(t, 7, s.StartDifficulty)

	// Only valid from onboarding.
	assert.ErrorIs(t, confirmDifficulty(s, 7), util.ErrInvalidTransition)

	s2 := newSession()
	assert.ErrorIs(t, confirmDifficulty(s2, 0), util.ErrInvalidDifficulty)
	assert.ErrorIs(t, confirmDifficulty(s2, 21), util.ErrInvalidDifficulty)
}

func TestSolveFeedbackLoop(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)

	require.NoError(t, applyOutcome(s, model.OutcomeWrong))
	assert.Equal(t, model.StateFeedback, s.State)
	assert.Equal(t, model.OutcomeWrong, s.PendingOutcome)

	// Answering again without being in solving is rejected.
	assert.ErrorIs(t, applyOutcome(s, model.OutcomeCorrect), util.ErrInvalidTransition)
}

func TestRetryDoesNotRatchetOrCount(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)
	require.NoError(t, applyOutcome(s, model.OutcomeWrong))

	require.NoError(t, retrySameProblem(s))
	assert.Equal(t, model.StateSolving, s.State)
	assert.Equal(t, "p1", s.CurrentProblemID, "retry keeps the same problem")
	assert.Equal(t, 10, s.TargetDifficulty, "retry must not ratchet")
	assert.Equal(t, 0, s.CompletedCount, "retry must not count as completed")
	assert.Empty(t, s.PendingOutcome)
}

func TestRetryOnlyAfterWrong(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)
	require.NoError(t, applyOutcome(s, model.OutcomeGiveUp))

	assert.ErrorIs(t, retrySameProblem(s), util.ErrInvalidTransition)
}

func TestFinalizeRatchetsAndCounts(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)
	require.NoError(t, applyOutcome(s, model.OutcomeCorrect))

	outcome := finalizeOutcome(s)
	assert.Equal(t, model.OutcomeCorrect, outcome)
	assert.Equal(t, 11, s.TargetDifficulty)
	assert.Equal(t, 1, s.CompletedCount)
	assert.Empty(t, s.PendingOutcome)
}

func TestVotingGate(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))

	// First problem: no previous, no vote.
	advanceProblem(s, "p1", true)
	require.NoError(t, applyOutcome(s, model.OutcomeCorrect))
	finalizeOutcome(s)
	assert.False(t, shouldCollectVote(s))

	// Second problem: previous exists and two are completed.
	advanceProblem(s, "p2", true)
	require.NoError(t, applyOutcome(s, model.OutcomeWrong))
	finalizeOutcome(s)
	assert.True(t, shouldCollectVote(s))
	assert.Equal(t, "p1", s.PreviousProblemID)
	assert.Equal(t, "p2", s.CurrentProblemID)
}

func TestWatchingBranch(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)

	// Not reachable after a correct outcome.
	require.NoError(t, applyOutcome(s, model.OutcomeCorrect))
	assert.ErrorIs(t, startWatching(s), util.ErrInvalidTransition)

	s.PendingOutcome = model.OutcomeGiveUp
	require.NoError(t, startWatching(s))
	assert.Equal(t, model.StateWatching, s.State)

	// Finalizing from watching still ratchets down on the giveup.
	finalizeOutcome(s)
	assert.Equal(t, 9, s.TargetDifficulty)
	assert.Equal(t, 1, s.CompletedCount)
}

func TestExhaustionAndRestart(t *testing.T) {
	s := newSession()
	require.NoError(t, confirmDifficulty(s, 10))
	advanceProblem(s, "p1", true)

	advanceProblem(s, "", false)
	assert.Equal(t, model.StateComplete, s.State)
	assert.Empty(t, s.CurrentProblemID)
	assert.Equal(t, "p1", s.PreviousProblemID)

	s.ResetProgress()
	assert.Equal(t, model.StateSolving, s.State)
	assert.Equal(t, 10, s.TargetDifficulty)
	assert.Zero(t, s.CompletedCount)
	assert.Empty(t, s.SeenSet())
	assert.Empty(t, s.PreviousProblemID)
}

func TestSeenSetRoundTrip(t *testing.T) {
	s := newSession()
	s.MarkSeen("a")
	s.MarkSeen("b")
	s.MarkSeen("a")

	seen := s.SeenSet()
	assert.Len(t, seen, 2)
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
}
