package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/jdoner02/cyber-department-schedule-sub000/api/swagger"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/handler"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/middleware"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/repository"
	"github.com/jdoner02/cyber-department-schedule-sub000/internal/service"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/cache"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/config"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/database"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/export"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/jobs"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/logger"
	corsmiddleware "github.com/jdoner02/cyber-department-schedule-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/jdoner02/cyber-department-schedule-sub000/pkg/middleware/requestid"
	"github.com/jdoner02/cyber-department-schedule-sub000/pkg/storage"
)

// @title Department Schedule API
// @version 1.0.0
// @description Conflict detection, course grouping and schedule optimisation for department course offerings.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	issueRole := flag.String("issue-token", "", "print a development token for the given role (viewer, chair, admin) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	validate := validator.New()
	auth := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            "department-schedule",
	})

	if *issueRole != "" {
		if cfg.Env == config.EnvProduction {
			logr.Fatal("token issuing is disabled in production")
		}
		token, expires, err := auth.IssueToken("dev-"+*issueRole, "", *issueRole, 12*time.Hour)
		if err != nil {
			logr.Fatal("issue token", zap.Error(err))
		}
		fmt.Printf("%s\n# expires %s\n", token, expires.Format(time.RFC3339))
		return
	}

	if err := run(cfg, logr, validate, auth); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger, validate *validator.Validate, auth *service.AuthService) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{"postgres": db.PingContext}

	var cacheRepo service.CacheRepository
	if cfg.Analysis.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analysis cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
			checks["redis"] = redisRepo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analysis.CacheTTL, logr, cacheRepo != nil)

	courseRepo := repository.NewCourseRepository(db)
	draftRepo := repository.NewDraftRepository(db)

	optimizerCfg := service.OptimizerConfig{
		MaxPermutations: cfg.Optimizer.MaxPermutations,
		MaxTime:         cfg.Optimizer.MaxTime,
	}
	runs := service.NewOptimizationRunStore(cfg.Optimizer.RunTTL)
	worker := service.NewOptimizerWorker(courseRepo, runs, metrics, logr, optimizerCfg)
	queue := jobs.NewQueue("optimizer", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Optimizer.Workers,
		MaxRetries: cfg.Optimizer.Retries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	courseSvc := service.NewCourseService(courseRepo, cacheSvc, metrics, validate, logr)
	analysisSvc := service.NewAnalysisService(courseRepo, cacheSvc, validate, logr, service.AnalysisConfig{CacheTTL: cfg.Analysis.CacheTTL})
	optimizerSvc := service.NewOptimizerService(courseRepo, runs, queue, metrics, validate, logr, optimizerCfg)
	draftSvc := service.NewDraftService(draftRepo, courseRepo, optimizerSvc, db, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			return fmt.Errorf("export storage: %w", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(analysisSvc, files, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
		}, validate, logr, export.NewCSVExporter(), export.NewPDFExporter())
		go cleanupExports(ctx, exportSvc, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	registerRoutes(api, routes{
		cfg:       cfg,
		logger:    logr,
		auth:      auth,
		courses:   handler.NewCourseHandler(courseSvc),
		analysis:  handler.NewAnalysisHandler(analysisSvc),
		optimizer: handler.NewOptimizerHandler(optimizerSvc),
		drafts:    handler.NewDraftHandler(draftSvc),
		exports:   exportSvc,
		metrics:   ops,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routes struct {
	cfg       *config.Config
	logger    *zap.Logger
	auth      *service.AuthService
	courses   *handler.CourseHandler
	analysis  *handler.AnalysisHandler
	optimizer *handler.OptimizerHandler
	drafts    *handler.DraftHandler
	exports   *service.ExportService
	metrics   *handler.MetricsHandler
}

func registerRoutes(api *gin.RouterGroup, rt routes) {
	editors := middleware.RequireRoles(models.RoleChair)

	if rt.exports != nil {
		exports := handler.NewExportHandler(rt.exports)
		// The signed token authorises the download on its own.
		api.GET("/exports/download", middleware.FeatureGate("exports", true), exports.Download)

		group := api.Group("/exports", middleware.FeatureGate("exports", true), middleware.JWT(rt.auth))
		group.POST("/conflicts", middleware.Audit(rt.logger, "export.conflicts"), exports.Conflicts)
	} else {
		api.Any("/exports/*any", middleware.FeatureGate("exports", false))
	}

	secured := api.Group("", middleware.JWT(rt.auth))
	secured.GET("/terms", rt.courses.Terms)
	secured.GET("/courses", rt.courses.List)
	secured.POST("/courses/import", editors, middleware.Audit(rt.logger, "courses.import"), rt.courses.Import)

	analysis := secured.Group("/analysis")
	analysis.GET("/conflicts", rt.analysis.Conflicts)
	analysis.GET("/groups", rt.analysis.Groups)
	analysis.GET("/stacked", rt.analysis.Stacked)
	analysis.GET("/summary", rt.analysis.Summary)

	optimizer := secured.Group("/optimizer")
	optimizer.POST("/preview", rt.optimizer.Preview)
	optimizer.GET("/runs", rt.optimizer.ListRuns)
	optimizer.GET("/runs/:id", rt.optimizer.GetRun)
	optimizer.POST("/runs", editors, middleware.Audit(rt.logger, "optimizer.run.start"), rt.optimizer.StartRun)
	optimizer.DELETE("/runs/:id", editors, middleware.Audit(rt.logger, "optimizer.run.cancel"), rt.optimizer.CancelRun)

	drafts := secured.Group("/drafts", middleware.FeatureGate("drafts", rt.cfg.Drafts.Enabled))
	drafts.GET("", rt.drafts.List)
	drafts.GET("/:id", rt.drafts.Get)
	drafts.POST("/:id/optimize", rt.drafts.Optimize)
	drafts.POST("", editors, middleware.Audit(rt.logger, "drafts.create"), rt.drafts.Create)
	drafts.POST("/:id/publish", editors, middleware.Audit(rt.logger, "drafts.publish"), rt.drafts.Publish)
	drafts.DELETE("/:id", editors, middleware.Audit(rt.logger, "drafts.delete"), rt.drafts.Delete)

	secured.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin), rt.metrics.Summary)
}

func cleanupExports(ctx context.Context, exports *service.ExportService, logr *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup(0)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("export cleanup", zap.Int("removed", len(removed)))
			}
		}
	}
}
