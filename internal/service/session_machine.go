package service

import (
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/util"
)

// The practice loop state machine. These helpers mutate the in-memory
// session row only; SessionService owns persistence. Exactly one state is
// active per session and every transition is driven by an explicit request.

// confirmDifficulty moves onboarding → solving with the chosen start level.
func confirmDifficulty(s *model.PracticeSession, level int) error {
	if s.State != model.StateOnboarding {
		return util.ErrInvalidTransition
	}
	if level < 1 || level > 20 {
		return util.ErrInvalidDifficulty
	}
	s.TargetDifficulty = level
	s.StartDifficulty = level
	s.State = model.StateSolving
	return nil
}

// applyOutcome moves solving → feedback, holding the outcome until the
// learner finalizes or retries.
func applyOutcome(s *model.PracticeSession, outcome model.Outcome) error {
	if s.State != model.StateSolving || s.CurrentProblemID == "" {
		return util.ErrInvalidTransition
	}
	s.PendingOutcome = outcome
	s.State = model.StateFeedback
	return nil
}

// retrySameProblem moves feedback → solving on the same problem. Only a
// wrong answer can be retried, and a retry neither ratchets the target nor
// counts the problem as completed.
func retrySameProblem(s *model.PracticeSession) error {
	if s.State != model.StateFeedback || s.PendingOutcome != model.OutcomeWrong {
		return util.ErrInvalidTransition
	}
	s.PendingOutcome = ""
	s.State = model.StateSolving
	return nil
}

// startWatching moves feedback → watching; only reachable after a wrong or
// given-up outcome, and only when the problem has a solution video (checked
// by the caller).
func startWatching(s *model.PracticeSession) error {
	if s.State != model.StateFeedback {
		return util.ErrInvalidTransition
	}
	if s.PendingOutcome != model.OutcomeWrong && s.PendingOutcome != model.OutcomeGiveUp {
		return util.ErrInvalidTransition
	}
	s.State = model.StateWatching
	return nil
}

// finalizeOutcome settles the pending outcome: the ratchet moves the target,
// the problem counts as completed, and the pending marker clears. Returns
// the settled outcome.
func finalizeOutcome(s *model.PracticeSession) model.Outcome {
	outcome := s.PendingOutcome
	s.TargetDifficulty = NextTarget(s.TargetDifficulty, outcome)
	s.CompletedCount++
	s.PendingOutcome = ""
	return outcome
}

// shouldCollectVote gates the voting state: at least two completed problems
// and a previous one to compare against.
func shouldCollectVote(s *model.PracticeSession) bool {
	return s.CompletedCount >= 2 && s.PreviousProblemID != ""
}

// advanceProblem rotates the just-finished problem into the previous slot
// and installs the next pick, or parks the session in complete on
// exhaustion.
func advanceProblem(s *model.PracticeSession, nextID string, ok bool) {
	if s.CurrentProblemID != "" {
		s.PreviousProblemID = s.CurrentProblemID
	}
	if !ok {
		s.CurrentProblemID = ""
		s.State = model.StateComplete
		return
	}
	s.CurrentProblemID = nextID
	s.MarkSeen(nextID)
	s.State = model.StateSolving
}
