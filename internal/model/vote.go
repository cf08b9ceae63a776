package model

import "time"

// Vote is a learner's judgment of the current problem relative to the
// previous one. Closed set so invalid values are unrepresentable past binding.
type Vote string

const (
	VoteEasier Vote = "easier"
	VoteSame   Vote = "same"
	VoteHarder Vote = "harder"
)

func (v Vote) Valid() bool {
	switch v {
	case VoteEasier, VoteSame, VoteHarder:
		return true
	}
	return false
}

// PairwiseVote is one difficulty comparison. One row per
// (session, problem pair); a resubmission overwrites the value.
// ProcessedAt is nil while the vote is pending for the batch job.
//
// swagger:model PairwiseVote
type PairwiseVote struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	SessionID         string     `gorm:"type:varchar(36);uniqueIndex:idx_vote_pair,priority:1" json:"sessionId"`
	PreviousProblemID string     `gorm:"type:varchar(64);uniqueIndex:idx_vote_pair,priority:2" json:"previousProblemId"`
	CurrentProblemID  string     `gorm:"type:varchar(64);uniqueIndex:idx_vote_pair,priority:3" json:"currentProblemId"`
	Value             Vote       `gorm:"type:enum('easier','same','harder')" json:"value"`
	ProcessedAt       *time.Time `gorm:"index" json:"processedAt,omitempty"`
}

func (PairwiseVote) TableName() string {
	return "pairwise_votes"
}
