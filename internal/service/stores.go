package service

import (
	"context"
	"database/sql"
	"time"

	"mathquest_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Storage surfaces consumed by the rating services. The gorm repositories
// satisfy them; tests drive the services with in-memory fakes.

// VoteStore is the vote queue the batch job drains.
type VoteStore interface {
	ListUnprocessed(limit int) ([]model.PairwiseVote, error)
	MarkProcessed(tx *gorm.DB, ids []uint, at time.Time) error
	CountPending() (int64, error)
}

// ProblemRatingStore is the problem rating surface shared by the batch job
// and the attempt updater.
type ProblemRatingStore interface {
	GetOrDefault(problemID string) (*model.ProblemRating, error)
	FindByProblemIDs(ids []string) (map[string]*model.ProblemRating, error)
	SaveAll(tx *gorm.DB, ratings []*model.ProblemRating) error
	FindLive(problemID string) (*model.ProblemRating, error)
	IncrementAttempts(problemID string) error
}

type UserRatingStore interface {
	GetOrDefault(userID uint) (*model.UserRating, error)
	SaveWithHistory(rating *model.UserRating, entry *model.UserRatingHistoryEntry) error
	History(userID uint, limit int) ([]model.UserRatingHistoryEntry, error)
}

type AttemptStore interface {
	Create(attempt *model.Attempt) error
	CountForUser(userID uint) (int64, error)
}

// ProblemFinder is the read-only problem lookup the rating path needs.
type ProblemFinder interface {
	FindByID(id string) (*model.Problem, error)
}

// TxRunner is gorm's transaction entry point.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchLocker is the redis surface of the batch advisory lock.
type BatchLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
