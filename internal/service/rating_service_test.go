package service

import (
	"errors"
	"testing"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingFixture() (*RatingService, *fakeAttemptStore, *fakeUserRatingStore, *fakeRatingStore) {
	attempts := &fakeAttemptStore{}
	users := &fakeUserRatingStore{}
	ratings := newFakeRatingStore()
	problems := &fakeProblemFinder{problems: map[string]model.Problem{
		"p1": {ID: "p1", Topic: "algebra", SeedDifficulty: 5},
	}}
	return NewRatingService(attempts, users, ratings, problems), attempts, users, ratings
}

func TestRecordAttemptAppendsHistoryWithDelta(t *testing.T) {
	svc, attempts, users, ratings := newRatingFixture()
	ratings.rows["p1"] = model.ProblemRating{ProblemID: "p1", Rating: 1200, VoteCount: 3}

	uid := uint(7)
	attempt, err := svc.RecordAttempt("s1", &uid, "p1", model.OutcomeCorrect, 4200)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	require.Len(t, attempts.attempts, 1)

	// 1000 vs 1200 at k=64: expected ~0.24, a win gains 49.
	row := users.rows[7]
	assert.Equal(t, 1049, row.Rating)
	assert.Equal(t, 1, row.AttemptCount)

	require.Len(t, users.history, 1)
	entry := users.history[0]
	assert.Equal(t, uint(7), entry.UserID)
	assert.Equal(t, "p1", entry.ProblemID)
	assert.Equal(t, model.OutcomeCorrect, entry.Outcome)
	assert.Equal(t, 49, entry.Delta)
	assert.Equal(t, 1049, entry.Rating)

	assert.Equal(t, 1, ratings.attemptIncrements["p1"])
}

func TestRecordAttemptFallsBackToSeedRating(t *testing.T) {
	// No live rating row: the fold runs against SeedRating(5)=1240.
	svc, _, users, _ := newRatingFixture()

	uid := uint(3)
	_, err := svc.RecordAttempt("s1", &uid, "p1", model.OutcomeCorrect, 900)
	require.NoError(t, err)

	require.Len(t, users.history, 1)
	assert.Equal(t, 51, users.history[0].Delta)
	assert.Equal(t, 1051, users.rows[3].Rating)
}

func TestRecordAttemptSkipsRatingUpdateWhenNotEligible(t *testing.T) {
	svc, attempts, users, _ := newRatingFixture()

	// Anonymous attempt: durable, but no user rating to move.
	_, err := svc.RecordAttempt("s1", nil, "p1", model.OutcomeCorrect, 100)
	require.NoError(t, err)

	// Giveup is not decisive.
	uid := uint(9)
	_, err = svc.RecordAttempt("s1", &uid, "p1", model.OutcomeGiveUp, 100)
	require.NoError(t, err)

	assert.Len(t, attempts.attempts, 2)
	assert.Empty(t, users.history)
	assert.Empty(t, users.rows)
}

func TestRecordAttemptSurvivesRatingStoreFailure(t *testing.T) {
	svc, attempts, users, _ := newRatingFixture()
	users.saveErr = errors.New("connection reset")

	uid := uint(5)
	attempt, err := svc.RecordAttempt("s1", &uid, "p1", model.OutcomeWrong, 2500)
	require.NoError(t, err)
	require.NotNil(t, attempt)

	// The attempt row is the source of truth; the rating write may fail.
	assert.Len(t, attempts.attempts, 1)
	assert.Empty(t, users.history)
}

func TestRecordAttemptUnknownProblem(t *testing.T) {
	svc, attempts, _, _ := newRatingFixture()

	_, err := svc.RecordAttempt("s1", nil, "nope", model.OutcomeCorrect, 100)
	assert.ErrorIs(t, err, util.ErrProblemNotFound)
	assert.Empty(t, attempts.attempts)
}

func TestUserRatingProfileCountsEveryAttempt(t *testing.T) {
	svc, _, _, ratings := newRatingFixture()
	ratings.rows["p1"] = model.ProblemRating{ProblemID: "p1", Rating: 1100, VoteCount: 2}

	uid := uint(4)
	for _, outcome := range []model.Outcome{model.OutcomeWrong, model.OutcomeCorrect, model.OutcomeGiveUp} {
		_, err := svc.RecordAttempt("s1", &uid, "p1", outcome, 100)
		require.NoError(t, err)
	}

	profile, err := svc.UserRating(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.TotalAttempts)
	// Only the two decisive outcomes moved the rating.
	assert.Len(t, profile.History, 2)
	assert.Equal(t, 2, profile.Rating.AttemptCount)
}
