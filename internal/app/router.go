package app

import (
	"mathquest_backend/docs"
	"mathquest_backend/internal/config"
	"mathquest_backend/internal/middleware"
	"mathquest_backend/internal/model"
	"mathquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerPracticeRoutes(router, c, repos)
	a.registerUserRoutes(router, c, repos)
	a.registerAdminRoutes(router, c, repos)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Corpus browsing is open: problems carry no answers over the wire.
		public.GET("/problems", c.problem.List)
		public.GET("/problems/:id", c.problem.Get)
		public.GET("/problems/:id/rating", c.problem.GetRating)
	}
}

// registerPracticeRoutes uses optional auth: anonymous sessions work end to
// end, a valid token just binds the session to the user for rating updates.
func (a *App) registerPracticeRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	practice := router.Group("/api/practice")
	practice.Use(middleware.TryAuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		practice.POST("/sessions", c.practice.StartSession)
		practice.GET("/sessions/:id", c.practice.GetSession)
		practice.POST("/sessions/:id/difficulty", c.practice.ConfirmDifficulty)
		practice.POST("/sessions/:id/answer", c.practice.SubmitAnswer)
		practice.POST("/sessions/:id/giveup", c.practice.GiveUp)
		practice.POST("/sessions/:id/retry", c.practice.Retry)
		practice.POST("/sessions/:id/advance", c.practice.Advance)
		practice.POST("/sessions/:id/watch", c.practice.WatchSolution)
		practice.POST("/sessions/:id/watched", c.practice.FinishWatching)
		practice.POST("/sessions/:id/vote", c.practice.SubmitVote)
		practice.POST("/sessions/:id/vote/skip", c.practice.SkipVote)
		practice.POST("/sessions/:id/restart", c.practice.Restart)
	}
}

func (a *App) registerUserRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/ratings/me", c.rating.MyRating)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.PUT("/problems", c.problem.Upsert)
		admin.POST("/problems/:id/video", c.problem.UploadSolutionVideo)

		admin.POST("/ratings/process-votes", c.rating.ProcessVotes)
		admin.GET("/ratings/pending-votes", c.rating.PendingVotes)
		admin.POST("/ratings/sync-seeds", c.rating.SyncSeeds)
		admin.POST("/ratings/reload-corpus", c.rating.ReloadCorpus)
	}
}
