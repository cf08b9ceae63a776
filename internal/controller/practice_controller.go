package controller

import (
	"errors"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	SessionService *service.SessionService
}

func NewPracticeController(sessionService *service.SessionService) *PracticeController {
	return &PracticeController{SessionService: sessionService}
}

// StartSession godoc
// @Summary Open a practice session
// @Description Start a new session in the onboarding step. Works with or without a logged-in user.
// @Tags practice
// @Produce json
// @Success 201 {object} util.Response{data=model.PracticeSession}
// @Router /api/practice/sessions [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	session, err := c.SessionService.StartSession(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// GetSession godoc
// @Summary Fetch session state
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/practice/sessions/{id} [get]
func (c *PracticeController) GetSession(ctx *gin.Context) {
	view, err := c.SessionService.Get(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// swagger:model ConfirmDifficultyRequest
type ConfirmDifficultyRequest struct {
	Level int `json:"level" binding:"required,min=1,max=20"`
}

// ConfirmDifficulty godoc
// @Summary Confirm the starting difficulty
// @Description Fix the session's starting target and serve the first problem
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body ConfirmDifficultyRequest true "Chosen level"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "Invalid level"
// @Failure 409 {object} util.Response "Session not in onboarding"
// @Router /api/practice/sessions/{id}/difficulty [post]
func (c *PracticeController) ConfirmDifficulty(ctx *gin.Context) {
	var req ConfirmDifficultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.SessionService.ConfirmDifficulty(ctx.Param("id"), req.Level)
	c.respond(ctx, view, err)
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Answer    string `json:"answer" binding:"required"`
	ElapsedMs int    `json:"elapsedMs"`
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Grade the submission, record the attempt and move to feedback
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body SubmitAnswerRequest true "Submission"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/answer [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.SessionService.SubmitAnswer(ctx.Param("id"), req.Answer, req.ElapsedMs)
	c.respond(ctx, view, err)
}

// swagger:model GiveUpRequest
type GiveUpRequest struct {
	ElapsedMs int `json:"elapsedMs"`
}

// GiveUp godoc
// @Summary Give up on the current problem
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body GiveUpRequest false "Timing"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/giveup [post]
func (c *PracticeController) GiveUp(ctx *gin.Context) {
	var req GiveUpRequest
	_ = ctx.ShouldBindJSON(&req)
	view, err := c.SessionService.GiveUp(ctx.Param("id"), req.ElapsedMs)
	c.respond(ctx, view, err)
}

// Retry godoc
// @Summary Retry the same problem after a wrong answer
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/retry [post]
func (c *PracticeController) Retry(ctx *gin.Context) {
	view, err := c.SessionService.Retry(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// Advance godoc
// @Summary Move on from feedback
// @Description Finalize the outcome and continue, detouring through voting when a comparison is due
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/advance [post]
func (c *PracticeController) Advance(ctx *gin.Context) {
	view, err := c.SessionService.Advance(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// WatchSolution godoc
// @Summary Start watching the solution video
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "No solution video"
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/watch [post]
func (c *PracticeController) WatchSolution(ctx *gin.Context) {
	view, err := c.SessionService.WatchSolution(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// swagger:model FinishWatchingRequest
type FinishWatchingRequest struct {
	Helpful *bool `json:"helpful"`
}

// FinishWatching godoc
// @Summary Finish watching and continue
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body FinishWatchingRequest false "Optional helpfulness signal"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/watched [post]
func (c *PracticeController) FinishWatching(ctx *gin.Context) {
	var req FinishWatchingRequest
	_ = ctx.ShouldBindJSON(&req)
	view, err := c.SessionService.FinishWatching(ctx.Param("id"), req.Helpful)
	c.respond(ctx, view, err)
}

// swagger:model SubmitVoteRequest
type SubmitVoteRequest struct {
	Vote string `json:"vote" binding:"required,oneof=easier same harder"`
}

// SubmitVote godoc
// @Summary Compare the last two problems
// @Description Record whether the current problem felt easier, the same or harder than the previous one
// @Tags practice
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body SubmitVoteRequest true "Judgment"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 400 {object} util.Response "Invalid vote"
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/vote [post]
func (c *PracticeController) SubmitVote(ctx *gin.Context) {
	var req SubmitVoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.SessionService.SubmitVote(ctx.Param("id"), model.Vote(req.Vote))
	c.respond(ctx, view, err)
}

// SkipVote godoc
// @Summary Skip the difficulty comparison
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/vote/skip [post]
func (c *PracticeController) SkipVote(ctx *gin.Context) {
	view, err := c.SessionService.SkipVote(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// Restart godoc
// @Summary Restart a completed session
// @Tags practice
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "Invalid state"
// @Router /api/practice/sessions/{id}/restart [post]
func (c *PracticeController) Restart(ctx *gin.Context) {
	view, err := c.SessionService.Restart(ctx.Param("id"))
	c.respond(ctx, view, err)
}

// respond maps the session service's sentinel errors onto HTTP statuses.
func (c *PracticeController) respond(ctx *gin.Context, view *service.SessionView, err error) {
	switch {
	case err == nil:
		util.Success(ctx, view)
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidTransition):
		// The request is well-formed but the session is in the wrong state.
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidDifficulty),
		errors.Is(err, util.ErrInvalidVote),
		errors.Is(err, util.ErrInvalidOutcome),
		errors.Is(err, util.ErrNoPreviousProblem),
		errors.Is(err, util.ErrVideoNotAvailable):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
