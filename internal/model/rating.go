package model

import "time"

// ProblemRating is the live difficulty estimate for one problem.
// Created lazily the first time a problem is referenced by a vote or the
// corpus sync; mutated only by the vote batch job and the sync.
//
// swagger:model ProblemRating
type ProblemRating struct {
	ProblemID    string    `gorm:"primaryKey;type:varchar(64)" json:"problemId"`
	Rating       int       `gorm:"default:1000" json:"rating"`
	VoteCount    int       `gorm:"default:0" json:"voteCount"`
	AttemptCount int       `gorm:"default:0" json:"attemptCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ProblemRating) TableName() string {
	return "problem_ratings"
}

// UserRating is the live skill estimate for one user, mutated only by the
// attempt rating updater.
//
// swagger:model UserRating
type UserRating struct {
	UserID       uint      `gorm:"primaryKey" json:"userId"`
	Rating       int       `gorm:"default:1000" json:"rating"`
	AttemptCount int       `gorm:"default:0" json:"attemptCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (UserRating) TableName() string {
	return "user_ratings"
}

// UserRatingHistoryEntry is an append-only ledger row, one per
// rating-affecting attempt. Never mutated or deleted.
//
// swagger:model UserRatingHistoryEntry
type UserRatingHistoryEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	ProblemID string    `gorm:"type:varchar(64);not null" json:"problemId"`
	Outcome   Outcome   `gorm:"type:enum('correct','wrong','giveup')" json:"outcome"`
	Delta     int       `json:"delta"`
	Rating    int       `json:"rating"`
}

func (UserRatingHistoryEntry) TableName() string {
	return "user_rating_history"
}
