package service

import (
	"errors"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/logger"
	"mathquest_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RatingService records solve attempts and synchronously updates the user's
// rating after decisive ones. The attempt row is the durable source of truth;
// the rating write is best-effort and never fails the recording.
type RatingService struct {
	AttemptRepo       AttemptStore
	UserRatingRepo    UserRatingStore
	ProblemRatingRepo ProblemRatingStore
	ProblemRepo       ProblemFinder
}

func NewRatingService(
	attemptRepo AttemptStore,
	userRatingRepo UserRatingStore,
	problemRatingRepo ProblemRatingStore,
	problemRepo ProblemFinder,
) *RatingService {
	return &RatingService{
		AttemptRepo:       attemptRepo,
		UserRatingRepo:    userRatingRepo,
		ProblemRatingRepo: problemRatingRepo,
		ProblemRepo:       problemRepo,
	}
}

// RecordAttempt durably stores one attempt and, for a decisive outcome by an
// identified user, folds it into the user's rating.
func (s *RatingService) RecordAttempt(sessionID string, userID *uint, problemID string, outcome model.Outcome, elapsedMs int) (*model.Attempt, error) {
	if !outcome.Valid() {
		return nil, util.ErrInvalidOutcome
	}

	problem, err := s.ProblemRepo.FindByID(problemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProblemNotFound
	}
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		SessionID: sessionID,
		ProblemID: problemID,
		UserID:    userID,
		Outcome:   outcome,
		ElapsedMs: elapsedMs,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	monitoring.AttemptsRecorded.WithLabelValues(string(outcome)).Inc()

	if err := s.ProblemRatingRepo.IncrementAttempts(problemID); err != nil {
		logger.Log.Warn("problem attempt counter update failed",
			zap.String("problem", problemID), zap.Error(err))
	}

	if outcome.Decisive() && userID != nil {
		if err := s.updateUserRating(*userID, problem, outcome); err != nil {
			// Rating is derived and recomputable from attempt history, so a
			// failure here must not surface to the attempt recording.
			logger.Log.Warn("user rating update failed",
				zap.Uint("user", *userID),
				zap.String("problem", problemID),
				zap.Error(err))
		}
	}

	return attempt, nil
}

func (s *RatingService) updateUserRating(userID uint, problem *model.Problem, outcome model.Outcome) error {
	user, err := s.UserRatingRepo.GetOrDefault(userID)
	if err != nil {
		return err
	}

	problemRating, err := s.liveOrSeedRating(problem)
	if err != nil {
		return err
	}

	k := elo.KFactor(user.AttemptCount)
	delta := elo.UserDelta(user.Rating, problemRating, outcome == model.OutcomeCorrect, k)

	user.Rating = elo.ClampUser(user.Rating + delta)
	user.AttemptCount++

	entry := &model.UserRatingHistoryEntry{
		UserID:    userID,
		ProblemID: problem.ID,
		Outcome:   outcome,
		Delta:     delta,
		Rating:    user.Rating,
	}
	return s.UserRatingRepo.SaveWithHistory(user, entry)
}

// liveOrSeedRating prefers the vote-derived rating and falls back to the
// author seed so unrated problems still participate correctly.
func (s *RatingService) liveOrSeedRating(problem *model.Problem) (int, error) {
	live, err := s.ProblemRatingRepo.FindLive(problem.ID)
	if err != nil {
		return 0, err
	}
	if live == nil || live.VoteCount == 0 {
		return elo.SeedRating(problem.SeedDifficulty), nil
	}
	return live.Rating, nil
}

// UserRatingProfile is the profile surface's view of one user's rating.
type UserRatingProfile struct {
	Rating        *model.UserRating              `json:"rating"`
	History       []model.UserRatingHistoryEntry `json:"history"`
	TotalAttempts int64                          `json:"totalAttempts"`
}

// UserRating exposes the current estimate with its history for the profile
// surface. TotalAttempts counts every recorded attempt, retries and giveups
// included, while the rating's own counter only tracks decisive ones.
func (s *RatingService) UserRating(userID uint) (*UserRatingProfile, error) {
	rating, err := s.UserRatingRepo.GetOrDefault(userID)
	if err != nil {
		return nil, err
	}
	history, err := s.UserRatingRepo.History(userID, 50)
	if err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.CountForUser(userID)
	if err != nil {
		return nil, err
	}
	return &UserRatingProfile{Rating: rating, History: history, TotalAttempts: attempts}, nil
}

// ProblemRating exposes the live difficulty estimate for one problem.
func (s *RatingService) ProblemRating(problemID string) (*model.ProblemRating, error) {
	if _, err := s.ProblemRepo.FindByID(problemID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProblemNotFound
	} else if err != nil {
		return nil, err
	}
	return s.ProblemRatingRepo.GetOrDefault(problemID)
}
