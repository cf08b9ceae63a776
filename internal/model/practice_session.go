package model

import "encoding/json"

type SessionState string

const (
	StateOnboarding SessionState = "onboarding"
	StateSolving    SessionState = "solving"
	StateFeedback   SessionState = "feedback"
	StateWatching   SessionState = "watching"
	StateVoting     SessionState = "voting"
	StateComplete   SessionState = "complete"
)

// PracticeSession carries the per-session practice loop: the state machine
// position, the scheduler's target difficulty and seen set, and the two most
// recently shown problems for pairwise voting. Single-threaded per session;
// every transition is driven by an explicit request.
//
// swagger:model PracticeSession
type PracticeSession struct {
	UUIDBase
	UserID            *uint        `gorm:"index" json:"userId,omitempty"`
	State             SessionState `gorm:"type:varchar(16);default:'onboarding'" json:"state"`
	TargetDifficulty  int          `gorm:"default:10" json:"targetDifficulty"`
	StartDifficulty   int          `gorm:"default:10" json:"startDifficulty"`
	SeenIDs           string       `gorm:"type:json" json:"-"`
	CompletedCount    int          `gorm:"default:0" json:"completedCount"`
	CurrentProblemID  string       `gorm:"type:varchar(64)" json:"currentProblemId,omitempty"`
	PreviousProblemID string       `gorm:"type:varchar(64)" json:"previousProblemId,omitempty"`
	PendingOutcome    Outcome      `gorm:"type:varchar(8)" json:"-"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

// SeenSet decodes the JSON seen-problem set. A broken or empty column decodes
// to an empty set rather than an error.
func (s *PracticeSession) SeenSet() map[string]bool {
	seen := map[string]bool{}
	if s.SeenIDs == "" {
		return seen
	}
	var ids []string
	if err := json.Unmarshal([]byte(s.SeenIDs), &ids); err != nil {
		return seen
	}
	for _, id := range ids {
		seen[id] = true
	}
	return seen
}

func (s *PracticeSession) MarkSeen(problemID string) {
	seen := s.SeenSet()
	if seen[problemID] {
		return
	}
	var ids []string
	if s.SeenIDs != "" {
		json.Unmarshal([]byte(s.SeenIDs), &ids)
	}
	ids = append(ids, problemID)
	raw, _ := json.Marshal(ids)
	s.SeenIDs = string(raw)
}

func (s *PracticeSession) ResetProgress() {
	s.State = StateSolving
	s.TargetDifficulty = s.StartDifficulty
	s.SeenIDs = ""
	s.CompletedCount = 0
	s.CurrentProblemID = ""
	s.PreviousProblemID = ""
	s.PendingOutcome = ""
}
