package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/controller"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/service"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/configwatcher"
	"mathquest_backend/pkg/database"
	"mathquest_backend/pkg/logger"
	"mathquest_backend/pkg/monitoring"
	"mathquest_backend/pkg/security"
	"mathquest_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	repos    *repositories
	services *services
	stopCh   chan struct{}
}

type repositories struct {
	user          *repository.UserRepository
	problem       *repository.ProblemRepository
	problemRating *repository.ProblemRatingRepository
	userRating    *repository.UserRatingRepository
	vote          *repository.VoteRepository
	attempt       *repository.AttemptRepository
	session       *repository.SessionRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	corpus    *service.CorpusService
	rating    *service.RatingService
	voteBatch *service.VoteBatchService
	session   *service.SessionService
}

type controllers struct {
	auth     *controller.AuthController
	problem  *controller.ProblemController
	practice *controller.PracticeController
	rating   *controller.RatingController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		problem:       repository.NewProblemRepository(db),
		problemRating: repository.NewProblemRatingRepository(db),
		userRating:    repository.NewUserRatingRepository(db),
		vote:          repository.NewVoteRepository(db),
		attempt:       repository.NewAttemptRepository(db),
		session:       repository.NewSessionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.corpus = service.NewCorpusService(repos.problem, repos.problemRating)
	s.rating = service.NewRatingService(repos.attempt, repos.userRating, repos.problemRating, repos.problem)
	s.voteBatch = service.NewVoteBatchService(repos.vote, repos.problemRating, db, rdb, cfg.Rating.VoteBatchSize)
	s.session = service.NewSessionService(repos.session, repos.problem, repos.vote, s.corpus, s.rating)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		problem:  controller.NewProblemController(a.repos.problem, s.rating, s.corpus, s.storage),
		practice: controller.NewPracticeController(s.session),
		rating:   controller.NewRatingController(s.rating, s.voteBatch, s.corpus),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the vote batch on a fixed interval. The redis
// lock inside the service makes overlapping runners a no-op, so multiple
// instances can share the same schedule.
func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Rating.BatchIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				processed, err := s.voteBatch.ProcessPendingVotes(context.Background())
				if err != nil && err != util.ErrBatchLockHeld {
					logger.Log.Error("vote batch error", zap.Error(err))
				} else if processed > 0 {
					logger.Log.Info("vote batch tick", zap.Int("processed", processed))
				}
			}
		}
	}()

	// Hot-reload the tunables that are safe to change without a restart.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		s.voteBatch.BatchSize = newCfg.Rating.VoteBatchSize
		logger.Log.Info("config reloaded",
			zap.Int("vote_batch_size", newCfg.Rating.VoteBatchSize))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode,
		database.ShouldMigrate(cfg.Server.Mode, cfg.ForceMigrate))
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stopCh: make(chan struct{}),
	}

	repos := app.initRepositories(db)
	app.repos = repos
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mathquest", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services, cfg)

	return app
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	close(a.stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
