package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProblemController struct {
	ProblemRepo    *repository.ProblemRepository
	RatingService  *service.RatingService
	CorpusService  *service.CorpusService
	StorageService *service.StorageService
}

func NewProblemController(
	problemRepo *repository.ProblemRepository,
	ratingService *service.RatingService,
	corpusService *service.CorpusService,
	storageService *service.StorageService,
) *ProblemController {
	return &ProblemController{
		ProblemRepo:    problemRepo,
		RatingService:  ratingService,
		CorpusService:  corpusService,
		StorageService: storageService,
	}
}

// List godoc
// @Summary Browse the problem corpus
// @Description List problems with optional topic filter and prompt search
// @Tags problems
// @Produce json
// @Param topic query string false "Topic filter"
// @Param q query string false "Prompt search"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/problems [get]
func (c *ProblemController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	problems, total, err := c.ProblemRepo.List(ctx.Query("topic"), ctx.Query("q"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  problems,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary Fetch one problem
// @Tags problems
// @Produce json
// @Param id path string true "Problem id"
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/problems/{id} [get]
func (c *ProblemController) Get(ctx *gin.Context) {
	problem, err := c.ProblemRepo.FindByID(ctx.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// GetRating godoc
// @Summary Live difficulty estimate for one problem
// @Tags problems
// @Produce json
// @Param id path string true "Problem id"
// @Success 200 {object} util.Response{data=model.ProblemRating}
// @Failure 404 {object} util.Response "Not found"
// @Router /api/problems/{id}/rating [get]
func (c *ProblemController) GetRating(ctx *gin.Context) {
	rating, err := c.RatingService.ProblemRating(ctx.Param("id"))
	if errors.Is(err, util.ErrProblemNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rating)
}

// swagger:model UpsertProblemRequest
type UpsertProblemRequest struct {
	ID              string  `json:"id" binding:"required"`
	Topic           string  `json:"topic" binding:"required"`
	SeedDifficulty  int     `json:"seedDifficulty" binding:"required,min=1,max=20"`
	Prompt          string  `json:"prompt" binding:"required"`
	AnswerType      string  `json:"answerType" binding:"required,oneof=numeric text"`
	AnswerValue     string  `json:"answerValue" binding:"required"`
	AnswerTolerance float64 `json:"answerTolerance"`
}

// Upsert godoc
// @Summary Create or replace a problem (admin)
// @Tags problems
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body UpsertProblemRequest true "Problem content"
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 400 {object} util.Response "Invalid payload"
// @Router /api/admin/problems [put]
func (c *ProblemController) Upsert(ctx *gin.Context) {
	var req UpsertProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem := &model.Problem{
		ID:              req.ID,
		Topic:           req.Topic,
		SeedDifficulty:  req.SeedDifficulty,
		Prompt:          req.Prompt,
		AnswerType:      model.AnswerType(req.AnswerType),
		AnswerValue:     req.AnswerValue,
		AnswerTolerance: req.AnswerTolerance,
	}
	if err := c.ProblemRepo.Upsert(problem); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	// New or re-seeded content changes what the scheduler can serve.
	if _, err := c.CorpusService.Reload(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, problem)
}

// UploadSolutionVideo godoc
// @Summary Attach a solution video to a problem (admin)
// @Description Accepts a multipart upload, probes its duration and stores it
// @Tags problems
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Problem id"
// @Param video formData file true "Video file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Invalid upload"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/problems/{id}/video [post]
func (c *ProblemController) UploadSolutionVideo(ctx *gin.Context) {
	problemID := ctx.Param("id")
	if _, err := c.ProblemRepo.FindByID(problemID); errors.Is(err, gorm.ErrRecordNotFound) {
		util.NotFound(ctx)
		return
	} else if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	file, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	// Stage locally first so ffprobe can inspect it before storage accepts it.
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "unreadable video: "+err.Error())
		return
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	objectName := fmt.Sprintf("solutions/%s/%d%s", problemID, time.Now().Unix(), filepath.Ext(file.Filename))
	url, err := c.StorageService.Upload(ctx.Request.Context(), objectName, src, info.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	seconds := int(info.Duration)
	if err := c.ProblemRepo.SetSolutionVideo(problemID, url, seconds); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"url":     url,
		"seconds": seconds,
		"width":   info.Width,
		"height":  info.Height,
	})
}
