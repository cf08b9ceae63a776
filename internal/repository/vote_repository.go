package repository

import (
	"time"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	DB *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{DB: db}
}

// Upsert records a pairwise vote. A duplicate submission for the same
// (session, pair) overwrites the judgment instead of inserting a second row.
func (r *VoteRepository) Upsert(vote *model.PairwiseVote) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "previous_problem_id"}, {Name: "current_problem_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(vote).Error
}

// ListUnprocessed returns pending votes in stable insertion order, bounded to
// keep batch memory and lock duration predictable.
func (r *VoteRepository) ListUnprocessed(limit int) ([]model.PairwiseVote, error) {
	var votes []model.PairwiseVote
	err := r.DB.Where("processed_at IS NULL").
		Order("id asc").Limit(limit).Find(&votes).Error
	return votes, err
}

// MarkProcessed stamps a batch of votes inside the caller's transaction.
func (r *VoteRepository) MarkProcessed(tx *gorm.DB, ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&model.PairwiseVote{}).Where("id IN ?", ids).
		Update("processed_at", at).Error
}

func (r *VoteRepository) CountPending() (int64, error) {
	var count int64
	err := r.DB.Model(&model.PairwiseVote{}).Where("processed_at IS NULL").Count(&count).Error
	return count, err
}
