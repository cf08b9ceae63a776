package model

import "time"

type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeGiveUp  Outcome = "giveup"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeWrong, OutcomeGiveUp:
		return true
	}
	return false
}

// Decisive reports whether the outcome moves the user rating.
func (o Outcome) Decisive() bool {
	return o == OutcomeCorrect || o == OutcomeWrong
}

// Attempt is the append-only record of one solve attempt. It is the durable
// source of truth; ratings are derived from it and recomputable.
//
// swagger:model Attempt
type Attempt struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	SessionID string    `gorm:"type:varchar(36);index" json:"sessionId"`
	ProblemID string    `gorm:"type:varchar(64);index;not null" json:"problemId"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	Outcome   Outcome   `gorm:"type:enum('correct','wrong','giveup')" json:"outcome"`
	ElapsedMs int       `json:"elapsedMs"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// VideoFeedback is the optional helpfulness signal collected after the
// solution-video branch.
type VideoFeedback struct {
	BaseModel
	SessionID string `gorm:"type:varchar(36);index" json:"sessionId"`
	ProblemID string `gorm:"type:varchar(64);index" json:"problemId"`
	Helpful   bool   `json:"helpful"`
}

func (VideoFeedback) TableName() string {
	return "video_feedback"
}
