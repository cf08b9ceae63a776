package service

import (
	"errors"
	"math/rand"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService drives the practice loop: it owns session rows, asks the
// scheduler for problems, records attempts through the rating service and
// collects pairwise votes at the voting step.
type SessionService struct {
	SessionRepo *repository.SessionRepository
	ProblemRepo *repository.ProblemRepository
	VoteRepo    *repository.VoteRepository
	Corpus      *CorpusService
	Rating      *RatingService
	Rng         *rand.Rand
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	problemRepo *repository.ProblemRepository,
	voteRepo *repository.VoteRepository,
	corpus *CorpusService,
	rating *RatingService,
) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		ProblemRepo: problemRepo,
		VoteRepo:    voteRepo,
		Corpus:      corpus,
		Rating:      rating,
	}
}

// SessionView is what the practice surface renders after every transition.
type SessionView struct {
	Session *model.PracticeSession `json:"session"`
	Problem *model.Problem         `json:"problem,omitempty"`
	Correct *bool                  `json:"correct,omitempty"`
}

// StartSession opens a new session in onboarding. The returned id is the
// opaque identifier threaded through every later call.
func (s *SessionService) StartSession(userID *uint) (*model.PracticeSession, error) {
	session := &model.PracticeSession{
		UserID: userID,
		State:  model.StateOnboarding,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmDifficulty fixes the starting target and serves the first problem.
func (s *SessionService) ConfirmDifficulty(sessionID string, level int) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if err := confirmDifficulty(session, level); err != nil {
		return nil, err
	}
	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// SubmitAnswer grades a submission, records the attempt and moves the
// session to feedback.
func (s *SessionService) SubmitAnswer(sessionID, answer string, elapsedMs int) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateSolving || session.CurrentProblemID == "" {
		return nil, util.ErrInvalidTransition
	}

	problem, err := s.ProblemRepo.FindByID(session.CurrentProblemID)
	if err != nil {
		return nil, err
	}

	correct := gradeAnswer(problem, answer)
	outcome := model.OutcomeWrong
	if correct {
		outcome = model.OutcomeCorrect
	}

	if _, err := s.Rating.RecordAttempt(session.ID, session.UserID, problem.ID, outcome, elapsedMs); err != nil {
		return nil, err
	}
	if err := applyOutcome(session, outcome); err != nil {
		return nil, err
	}

	view, err := s.persistView(session, problem)
	if err != nil {
		return nil, err
	}
	view.Correct = &correct
	return view, nil
}

// GiveUp records a giveup attempt and moves the session to feedback.
func (s *SessionService) GiveUp(sessionID string, elapsedMs int) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateSolving || session.CurrentProblemID == "" {
		return nil, util.ErrInvalidTransition
	}

	if _, err := s.Rating.RecordAttempt(session.ID, session.UserID, session.CurrentProblemID, model.OutcomeGiveUp, elapsedMs); err != nil {
		return nil, err
	}
	if err := applyOutcome(session, model.OutcomeGiveUp); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// Retry reopens the same problem after a wrong answer. No ratchet, no
// completion count.
func (s *SessionService) Retry(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if err := retrySameProblem(session); err != nil {
		return nil, err
	}

	problem, err := s.ProblemRepo.FindByID(session.CurrentProblemID)
	if err != nil {
		return nil, err
	}
	return s.persistView(session, problem)
}

// Advance finalizes the pending outcome and moves on: to voting when a
// comparison is due, otherwise straight to the next problem.
func (s *SessionService) Advance(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateFeedback {
		return nil, util.ErrInvalidTransition
	}

	finalizeOutcome(session)

	if shouldCollectVote(session) {
		session.State = model.StateVoting
		return s.persistView(session, nil)
	}

	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// WatchSolution moves feedback → watching when the problem has a video.
func (s *SessionService) WatchSolution(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateFeedback {
		return nil, util.ErrInvalidTransition
	}

	problem, err := s.ProblemRepo.FindByID(session.CurrentProblemID)
	if err != nil {
		return nil, err
	}
	if !problem.HasSolutionVideo() {
		return nil, util.ErrVideoNotAvailable
	}

	if err := startWatching(session); err != nil {
		return nil, err
	}
	return s.persistView(session, problem)
}

// FinishWatching stores the optional helpfulness signal, finalizes the
// pending outcome and serves the next problem. The watching branch never
// detours through voting.
func (s *SessionService) FinishWatching(sessionID string, helpful *bool) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateWatching {
		return nil, util.ErrInvalidTransition
	}

	if helpful != nil {
		feedback := &model.VideoFeedback{
			SessionID: session.ID,
			ProblemID: session.CurrentProblemID,
			Helpful:   *helpful,
		}
		if err := s.SessionRepo.CreateVideoFeedback(feedback); err != nil {
			logger.Log.Warn("video feedback write failed", zap.Error(err))
		}
	}

	finalizeOutcome(session)
	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// SubmitVote records the pairwise judgment for the two most recently
// completed problems and advances to the next one.
func (s *SessionService) SubmitVote(sessionID string, vote model.Vote) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateVoting {
		return nil, util.ErrInvalidTransition
	}
	if !vote.Valid() {
		return nil, util.ErrInvalidVote
	}
	if session.PreviousProblemID == "" {
		return nil, util.ErrNoPreviousProblem
	}

	record := &model.PairwiseVote{
		SessionID:         session.ID,
		PreviousProblemID: session.PreviousProblemID,
		CurrentProblemID:  session.CurrentProblemID,
		Value:             vote,
	}
	if err := s.VoteRepo.Upsert(record); err != nil {
		return nil, err
	}

	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// SkipVote advances past the voting step without writing a vote record.
func (s *SessionService) SkipVote(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateVoting {
		return nil, util.ErrInvalidTransition
	}

	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

// Restart re-enters the loop from a completed session, clearing the seen
// set, completion count and target.
func (s *SessionService) Restart(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateComplete {
		return nil, util.ErrInvalidTransition
	}

	session.ResetProgress()
	if err := s.pickNext(session); err != nil {
		return nil, err
	}
	return s.persistView(session, nil)
}

func (s *SessionService) Get(sessionID string) (*SessionView, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session)
}

func (s *SessionService) load(sessionID string) (*model.PracticeSession, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// pickNext consults the scheduler against the current corpus snapshot and
// rotates the session onto the chosen problem, or into complete on
// exhaustion.
func (s *SessionService) pickNext(session *model.PracticeSession) error {
	snapshot, err := s.Corpus.Snapshot()
	if err != nil {
		return err
	}
	nextID, ok := PickNext(snapshot, session.TargetDifficulty, session.SeenSet(), s.Rng)
	advanceProblem(session, nextID, ok)
	return nil
}

func (s *SessionService) persistView(session *model.PracticeSession, problem *model.Problem) (*SessionView, error) {
	if err := s.SessionRepo.Save(session); err != nil {
		return nil, err
	}
	if problem == nil && session.State == model.StateSolving && session.CurrentProblemID != "" {
		p, err := s.ProblemRepo.FindByID(session.CurrentProblemID)
		if err != nil {
			return nil, err
		}
		problem = p
	}
	return &SessionView{Session: session, Problem: problem}, nil
}

func (s *SessionService) view(session *model.PracticeSession) (*SessionView, error) {
	var problem *model.Problem
	if session.CurrentProblemID != "" && session.State == model.StateSolving {
		p, err := s.ProblemRepo.FindByID(session.CurrentProblemID)
		if err != nil {
			return nil, err
		}
		problem = p
	}
	return &SessionView{Session: session, Problem: problem}, nil
}
