package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studyhub-app/studyhub-api/api/swagger"
	"github.com/studyhub-app/studyhub-api/internal/handler"
	"github.com/studyhub-app/studyhub-api/internal/middleware"
	"github.com/studyhub-app/studyhub-api/internal/repository"
	"github.com/studyhub-app/studyhub-api/internal/service"
	"github.com/studyhub-app/studyhub-api/pkg/cache"
	"github.com/studyhub-app/studyhub-api/pkg/config"
	"github.com/studyhub-app/studyhub-api/pkg/database"
	"github.com/studyhub-app/studyhub-api/pkg/export"
	"github.com/studyhub-app/studyhub-api/pkg/logger"
	corsmiddleware "github.com/studyhub-app/studyhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studyhub-app/studyhub-api/pkg/middleware/requestid"
)

// @title StudyHub API
// @version 1.0.0
// @description Collaborative study platform: classes, quizzes, flashcards and progress tracking
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	sessionRepo := repository.NewStudySessionRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	contactRepo := repository.NewContactRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	classSvc := service.NewClassService(classRepo, enrollmentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, classRepo, validate, logr)
	quizSvc := service.NewQuizService(quizRepo, classRepo, enrollmentRepo, validate, logr)
	takingSvc := service.NewQuizTakingService(submissionRepo, quizRepo, classRepo, enrollmentRepo, validate, logr)
	flashcardSvc := service.NewFlashcardService(flashcardRepo, validate, logr)
	sessionSvc := service.NewStudySessionService(sessionRepo, validate, logr)
	goalSvc := service.NewGoalService(goalRepo, validate, logr)
	resourceSvc := service.NewResourceService(resourceRepo, validate, logr)
	contactSvc := service.NewContactService(contactRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, sessionRepo, submissionRepo, flashcardRepo, validate, logr)
	userSvc.AttachStatsCache(cacheSvc, cfg.Stats.CacheTTL)
	progressSvc := service.NewProgressService(sessionRepo, submissionRepo, cacheSvc, cfg.Stats.CacheTTL, logr)
	sessionSvc.AttachProgressCache(progressSvc)
	takingSvc.AttachProgressCache(progressSvc)
	exportSvc := service.NewExportService(takingSvc, userRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		User:         handler.NewUserHandler(userSvc),
		Class:        handler.NewClassHandler(classSvc),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentSvc),
		Quiz:         handler.NewQuizHandler(quizSvc),
		QuizTaking:   handler.NewQuizTakingHandler(takingSvc, exportSvc),
		Flashcard:    handler.NewFlashcardHandler(flashcardSvc),
		StudySession: handler.NewStudySessionHandler(sessionSvc),
		Goal:         handler.NewGoalHandler(goalSvc),
		Resource:     handler.NewResourceHandler(resourceSvc),
		Progress:     handler.NewProgressHandler(progressSvc),
		Contact:      handler.NewContactHandler(contactSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, handler.RouteOptions{
		ContactFormEnabled: cfg.Contact.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
