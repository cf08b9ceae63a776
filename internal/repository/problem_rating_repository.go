package repository

import (
	"time"

	"mathquest_backend/internal/elo"
	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRatingRepository struct {
	DB *gorm.DB
}

func NewProblemRatingRepository(db *gorm.DB) *ProblemRatingRepository {
	return &ProblemRatingRepository{DB: db}
}

// GetOrDefault returns the live rating row, or a default-valued one when no
// row exists yet. Absence of a row is never an error for readers.
func (r *ProblemRatingRepository) GetOrDefault(problemID string) (*model.ProblemRating, error) {
	var rating model.ProblemRating
	err := r.DB.First(&rating, "problem_id = ?", problemID).Error
	if err == gorm.ErrRecordNotFound {
		return &model.ProblemRating{ProblemID: problemID, Rating: elo.DefaultRating}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// FindByProblemIDs loads existing rows keyed by problem id. Callers seed
// defaults for any id that comes back missing.
func (r *ProblemRatingRepository) FindByProblemIDs(ids []string) (map[string]*model.ProblemRating, error) {
	var rows []model.ProblemRating
	if err := r.DB.Where("problem_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	ratings := make(map[string]*model.ProblemRating, len(rows))
	for i := range rows {
		ratings[rows[i].ProblemID] = &rows[i]
	}
	return ratings, nil
}

func (r *ProblemRatingRepository) All() ([]model.ProblemRating, error) {
	var rows []model.ProblemRating
	err := r.DB.Find(&rows).Error
	return rows, err
}

// SaveAll persists a working set of rating rows inside the caller's
// transaction.
func (r *ProblemRatingRepository) SaveAll(tx *gorm.DB, ratings []*model.ProblemRating) error {
	now := time.Now()
	for _, rating := range ratings {
		rating.UpdatedAt = now
		if err := tx.Save(rating).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedIfUnvoted upserts a seed-derived rating without ever overwriting a row
// that already accumulated live votes.
func (r *ProblemRatingRepository) SeedIfUnvoted(problemID string, rating int) error {
	var existing model.ProblemRating
	err := r.DB.First(&existing, "problem_id = ?", problemID).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.ProblemRating{ProblemID: problemID, Rating: rating}).Error
	}
	if err != nil {
		return err
	}
	if existing.VoteCount > 0 {
		return nil
	}
	return r.DB.Model(&model.ProblemRating{}).Where("problem_id = ?", problemID).
		Update("rating", rating).Error
}

// FindLive returns the live rating row, or nil when the problem has never
// been rated, so callers can fall back to seed-derived ratings.
func (r *ProblemRatingRepository) FindLive(problemID string) (*model.ProblemRating, error) {
	var rating model.ProblemRating
	err := r.DB.First(&rating, "problem_id = ?", problemID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// IncrementAttempts bumps the per-problem attempt counter, creating the row
// lazily on first reference.
func (r *ProblemRatingRepository) IncrementAttempts(problemID string) error {
	res := r.DB.Model(&model.ProblemRating{}).Where("problem_id = ?", problemID).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.DB.Create(&model.ProblemRating{
			ProblemID:    problemID,
			Rating:       elo.DefaultRating,
			AttemptCount: 1,
		}).Error
	}
	return nil
}
