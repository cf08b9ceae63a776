package model

import (
	"time"

	"gorm.io/gorm"
)

type AnswerType string

const (
	AnswerNumeric AnswerType = "numeric"
	AnswerText    AnswerType = "text"
)

// Problem is an immutable content record owned by the corpus import;
// the rating engine only ever reads it.
//
// swagger:model Problem
type Problem struct {
	ID              string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Topic           string         `gorm:"size:100;index" json:"topic"`
	SeedDifficulty  int            `gorm:"not null" json:"seedDifficulty"` // author-assigned, 1-20
	Prompt          string         `gorm:"type:text" json:"prompt"`
	AnswerType      AnswerType     `gorm:"type:enum('numeric','text');default:'numeric'" json:"answerType"`
	AnswerValue     string         `gorm:"size:255" json:"-"`
	AnswerTolerance float64        `gorm:"default:0" json:"-"`
	SolutionVideo   string         `gorm:"size:255" json:"solutionVideo,omitempty"`
	VideoSeconds    int            `gorm:"default:0" json:"videoSeconds,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Problem) TableName() string {
	return "problems"
}

func (p *Problem) HasSolutionVideo() bool {
	return p.SolutionVideo != ""
}
