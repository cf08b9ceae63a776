package controller

import (
	"errors"

	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RatingController struct {
	RatingService    *service.RatingService
	VoteBatchService *service.VoteBatchService
	CorpusService    *service.CorpusService
}

func NewRatingController(
	ratingService *service.RatingService,
	voteBatchService *service.VoteBatchService,
	corpusService *service.CorpusService,
) *RatingController {
	return &RatingController{
		RatingService:    ratingService,
		VoteBatchService: voteBatchService,
		CorpusService:    corpusService,
	}
}

// MyRating godoc
// @Summary Current user's rating and history
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/ratings/me [get]
func (c *RatingController) MyRating(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.RatingService.UserRating(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// ProcessVotes godoc
// @Summary Fold pending pairwise votes into problem ratings (admin)
// @Description Drains one bounded batch; returns 409 when another runner holds the lock
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 409 {object} util.Response "Batch already running"
// @Router /api/admin/ratings/process-votes [post]
func (c *RatingController) ProcessVotes(ctx *gin.Context) {
	processed, err := c.VoteBatchService.ProcessPendingVotes(ctx.Request.Context())
	if errors.Is(err, util.ErrBatchLockHeld) {
		util.Conflict(ctx, "vote batch already running")
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"processed": processed})
}

// PendingVotes godoc
// @Summary Count votes waiting for the next batch (admin)
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/ratings/pending-votes [get]
func (c *RatingController) PendingVotes(ctx *gin.Context) {
	pending, err := c.VoteBatchService.PendingVotes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"pending": pending})
}

// SyncSeeds godoc
// @Summary Seed initial ratings for unvoted problems (admin)
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/ratings/sync-seeds [post]
func (c *RatingController) SyncSeeds(ctx *gin.Context) {
	synced, err := c.CorpusService.SyncSeeds()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"synced": synced})
}

// ReloadCorpus godoc
// @Summary Rebuild the scheduler's corpus snapshot (admin)
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/ratings/reload-corpus [post]
func (c *RatingController) ReloadCorpus(ctx *gin.Context) {
	snapshot, err := c.CorpusService.Reload()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"problems": len(snapshot)})
}
