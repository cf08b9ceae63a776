package service

import (
	"context"
	"time"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/logger"
	"mathquest_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	voteBatchLockKey = "mathquest:vote_batch_lock"
	voteBatchLockTTL = 2 * time.Minute
)

// VoteBatchService folds pending pairwise votes into problem ratings. It is
// never invoked inline with a user request; the admin endpoint and the
// background ticker are the only callers.
type VoteBatchService struct {
	VoteRepo   VoteStore
	RatingRepo ProblemRatingStore
	DB         TxRunner
	Redis      BatchLocker
	BatchSize  int
}

func NewVoteBatchService(voteRepo VoteStore, ratingRepo ProblemRatingStore, db TxRunner, rdb BatchLocker, batchSize int) *VoteBatchService {
	return &VoteBatchService{
		VoteRepo:   voteRepo,
		RatingRepo: ratingRepo,
		DB:         db,
		Redis:      rdb,
		BatchSize:  batchSize,
	}
}

// ProcessPendingVotes drains one bounded batch of unprocessed votes in
// insertion order and persists the updated ratings and processed markers in
// a single transaction. A persistence failure aborts the whole batch with
// votes still pending, so a retry reprocesses from scratch. Only one runner
// may drain at a time; the redis lock enforces that across processes.
// The returned count is the number of votes drained; degenerate votes are
// marked processed without moving any rating.
func (s *VoteBatchService) ProcessPendingVotes(ctx context.Context) (int, error) {
	ok, err := s.Redis.SetNX(ctx, voteBatchLockKey, 1, voteBatchLockTTL).Result()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, util.ErrBatchLockHeld
	}
	defer func() {
		// Release with a fresh context: the caller's may already be canceled
		// and a dropped Del stalls the ticker for the full lock TTL.
		if err := s.Redis.Del(context.Background(), voteBatchLockKey).Err(); err != nil {
			logger.Log.Warn("vote batch lock release failed", zap.Error(err))
		}
	}()

	start := time.Now()

	votes, err := s.VoteRepo.ListUnprocessed(s.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(votes) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(votes)*2)
	idSet := make(map[string]bool, len(votes)*2)
	voteIDs := make([]uint, 0, len(votes))
	for _, v := range votes {
		voteIDs = append(voteIDs, v.ID)
		for _, id := range []string{v.PreviousProblemID, v.CurrentProblemID} {
			if !idSet[id] {
				idSet[id] = true
				ids = append(ids, id)
			}
		}
	}

	ratings, err := s.RatingRepo.FindByProblemIDs(ids)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, exists := ratings[id]; !exists {
			ratings[id] = &model.ProblemRating{ProblemID: id, Rating: elo.DefaultRating}
		}
	}

	applied := foldVotes(votes, ratings)

	touched := make([]*model.ProblemRating, 0, len(ratings))
	for _, id := range ids {
		touched = append(touched, ratings[id])
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.RatingRepo.SaveAll(tx, touched); err != nil {
			return err
		}
		return s.VoteRepo.MarkProcessed(tx, voteIDs, now)
	})
	if err != nil {
		return 0, err
	}

	monitoring.VotesProcessed.Add(float64(applied))
	monitoring.VoteBatchDuration.Observe(time.Since(start).Seconds())
	logger.Log.Info("vote batch processed",
		zap.Int("votes", len(votes)),
		zap.Int("applied", applied),
		zap.Int("problems", len(touched)),
		zap.Duration("elapsed", time.Since(start)))

	return len(votes), nil
}

// PendingVotes reports how many votes are waiting for the next batch.
func (s *VoteBatchService) PendingVotes() (int64, error) {
	return s.VoteRepo.CountPending()
}

// foldVotes applies votes sequentially in selection order against the
// in-memory working set, so later votes in the batch see the ratings and
// counts already moved by earlier ones. This ordering dependency is why the
// fold is not parallelized. Returns how many votes actually moved a rating
// pair; degenerate votes (self-pairs, unknown entries) are skipped.
func foldVotes(votes []model.PairwiseVote, ratings map[string]*model.ProblemRating) int {
	applied := 0
	for _, v := range votes {
		prev := ratings[v.PreviousProblemID]
		curr := ratings[v.CurrentProblemID]
		if prev == nil || curr == nil || prev == curr {
			continue
		}

		k := elo.KFactor(prev.VoteCount)
		if kc := elo.KFactor(curr.VoteCount); kc > k {
			k = kc
		}
		// A "same" judgment carries less information.
		if v.Value == model.VoteSame {
			k /= 2
		}

		prev.Rating, curr.Rating = elo.UpdatePair(prev.Rating, curr.Rating, elo.VoteScore(v.Value), k)
		prev.VoteCount++
		curr.VoteCount++
		applied++
	}
	return applied
}
