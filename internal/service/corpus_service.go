package service

import (
	"sync"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/repository"
	"mathquest_backend/pkg/logger"

	"go.uber.org/zap"
)

// CorpusService is the read-through view of the problem corpus used by the
// scheduler: problem ids with their current difficulty proxy. The snapshot is
// cached in memory and rebuilt on explicit Reload, never behind the caller's
// back.
type CorpusService struct {
	ProblemRepo *repository.ProblemRepository
	RatingRepo  *repository.ProblemRatingRepository

	mu       sync.RWMutex
	snapshot []Candidate
	loaded   bool
}

func NewCorpusService(problemRepo *repository.ProblemRepository, ratingRepo *repository.ProblemRatingRepository) *CorpusService {
	return &CorpusService{
		ProblemRepo: problemRepo,
		RatingRepo:  ratingRepo,
	}
}

// Snapshot returns the cached scheduler view, building it on first use.
func (s *CorpusService) Snapshot() ([]Candidate, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.snapshot, nil
	}
	s.mu.RUnlock()

	return s.Reload()
}

// Reload rebuilds the snapshot from storage. Problems with a live rating use
// its 1-20 level; unrated problems fall back to their seed difficulty.
func (s *CorpusService) Reload() ([]Candidate, error) {
	problems, err := s.ProblemRepo.All()
	if err != nil {
		return nil, err
	}

	rated, err := s.RatingRepo.All()
	if err != nil {
		return nil, err
	}
	levels := make(map[string]int, len(rated))
	for _, r := range rated {
		if r.VoteCount > 0 {
			levels[r.ProblemID] = elo.RatingLevel(r.Rating)
		}
	}

	snapshot := make([]Candidate, 0, len(problems))
	for _, p := range problems {
		level, ok := levels[p.ID]
		if !ok {
			level = p.SeedDifficulty
		}
		snapshot = append(snapshot, Candidate{ID: p.ID, Level: level})
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.loaded = true
	s.mu.Unlock()

	logger.Log.Info("corpus snapshot rebuilt", zap.Int("problems", len(snapshot)))
	return snapshot, nil
}

// SyncSeeds upserts seed-derived initial ratings for the whole corpus. Rows
// that already accumulated live votes are left untouched.
func (s *CorpusService) SyncSeeds() (int, error) {
	problems, err := s.ProblemRepo.All()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, p := range problems {
		if err := s.RatingRepo.SeedIfUnvoted(p.ID, elo.SeedRating(p.SeedDifficulty)); err != nil {
			return synced, err
		}
		synced++
	}

	logger.Log.Info("seed ratings synced", zap.Int("problems", synced))
	return synced, nil
}
