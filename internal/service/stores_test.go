package service

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/model"
	"mathquest_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// In-memory fakes for the store interfaces, so the services that normally sit
// on gorm and redis can be driven end to end in tests.

type fakeVoteStore struct {
	votes []model.PairwiseVote
}

func (f *fakeVoteStore) ListUnprocessed(limit int) ([]model.PairwiseVote, error) {
	var out []model.PairwiseVote
	for _, v := range f.votes {
		if v.ProcessedAt == nil {
			out = append(out, v)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeVoteStore) MarkProcessed(tx *gorm.DB, ids []uint, at time.Time) error {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for i := range f.votes {
		if set[f.votes[i].ID] {
			t := at
			f.votes[i].ProcessedAt = &t
		}
	}
	return nil
}

func (f *fakeVoteStore) CountPending() (int64, error) {
	var n int64
	for _, v := range f.votes {
		if v.ProcessedAt == nil {
			n++
		}
	}
	return n, nil
}

type fakeRatingStore struct {
	rows              map[string]model.ProblemRating
	attemptIncrements map[string]int
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{
		rows:              make(map[string]model.ProblemRating),
		attemptIncrements: make(map[string]int),
	}
}

func (f *fakeRatingStore) GetOrDefault(problemID string) (*model.ProblemRating, error) {
	if row, ok := f.rows[problemID]; ok {
		return &row, nil
	}
	return &model.ProblemRating{ProblemID: problemID, Rating: elo.DefaultRating}, nil
}

func (f *fakeRatingStore) FindByProblemIDs(ids []string) (map[string]*model.ProblemRating, error) {
	out := make(map[string]*model.ProblemRating, len(ids))
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			r := row
			out[id] = &r
		}
	}
	return out, nil
}

func (f *fakeRatingStore) SaveAll(tx *gorm.DB, ratings []*model.ProblemRating) error {
	for _, r := range ratings {
		f.rows[r.ProblemID] = *r
	}
	return nil
}

func (f *fakeRatingStore) FindLive(problemID string) (*model.ProblemRating, error) {
	if row, ok := f.rows[problemID]; ok {
		return &row, nil
	}
	return nil, nil
}

func (f *fakeRatingStore) IncrementAttempts(problemID string) error {
	f.attemptIncrements[problemID]++
	return nil
}

type fakeUserRatingStore struct {
	rows    map[uint]model.UserRating
	history []model.UserRatingHistoryEntry
	saveErr error
}

func (f *fakeUserRatingStore) GetOrDefault(userID uint) (*model.UserRating, error) {
	if row, ok := f.rows[userID]; ok {
		return &row, nil
	}
	return &model.UserRating{UserID: userID, Rating: elo.DefaultRating}, nil
}

func (f *fakeUserRatingStore) SaveWithHistory(rating *model.UserRating, entry *model.UserRatingHistoryEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.rows == nil {
		f.rows = make(map[uint]model.UserRating)
	}
	f.rows[rating.UserID] = *rating
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeUserRatingStore) History(userID uint, limit int) ([]model.UserRatingHistoryEntry, error) {
	var out []model.UserRatingHistoryEntry
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		if f.history[i].UserID == userID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

type fakeAttemptStore struct {
	attempts []model.Attempt
}

func (f *fakeAttemptStore) Create(attempt *model.Attempt) error {
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptStore) CountForUser(userID uint) (int64, error) {
	var n int64
	for _, a := range f.attempts {
		if a.UserID != nil && *a.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeProblemFinder struct {
	problems map[string]model.Problem
}

func (f *fakeProblemFinder) FindByID(id string) (*model.Problem, error) {
	if p, ok := f.problems[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	if f.err != nil {
		return f.err
	}
	return fc(nil)
}

type fakeBatchLocker struct {
	held   bool
	dels   int
	delCtx context.Context
}

func (f *fakeBatchLocker) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(!f.held, nil)
}

func (f *fakeBatchLocker) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.dels++
	f.delCtx = ctx
	return redis.NewIntResult(int64(len(keys)), nil)
}
