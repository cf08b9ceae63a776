package util

import "errors"

var (
	ErrEmailRegistered   = errors.New("email already registered")
	ErrProblemNotFound   = errors.New("problem not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("action not allowed in current session state")
	ErrInvalidVote       = errors.New("vote must be easier, same or harder")
	ErrInvalidOutcome    = errors.New("outcome must be correct, wrong or giveup")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 20")
	ErrNoPreviousProblem = errors.New("no previous problem to compare against")
	ErrBatchLockHeld     = errors.New("vote batch already running")
	ErrVideoNotAvailable = errors.New("no solution video for this problem")
)
