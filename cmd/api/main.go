package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/ai-interviewer-team/ai-interviewer/pkg/validator"

	"github.com/ai-interviewer-team/ai-interviewer/internal/adapter/handler"
	"github.com/ai-interviewer-team/ai-interviewer/internal/adapter/repository"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/cache"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/database"
	httpmw "github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/storage"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/grading"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/interview"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/llm"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/pdf"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize artifact directories
	log.Println("📁 Preparing artifact directories...")
	layout := storage.NewLayout(cfg.Paths)
	if err := layout.EnsureRoots(); err != nil {
		log.Fatalf("Failed to create artifact directories: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	sessionRepo := repository.NewSessionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	attentionRepo := repository.NewAttentionRepository(db)

	// Initialize credential manager
	log.Println("🔑 Initializing credential manager...")
	tokenManager := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Initialize LLM backend
	log.Printf("🤖 Initializing LLM backend (provider=%s)...", cfg.LLM.Provider)
	llmClient := llm.New(&cfg.LLM)
	gradingEngine := grading.NewEngine(llmClient, cfg.Interview.GradingWorkers, logger)

	// Initialize storage components
	transcriptStore := storage.NewTranscriptStore(layout)
	sweeper := storage.NewSweeper(layout, cfg.Interview.RetentionDays, logger)
	renderer := pdf.NewRenderer(cfg.Paths.ReportDir, cfg.Interview.CompanyName)

	// Initialize report publisher
	var publisher storage.ReportPublisher = storage.NewLocalPublisher()
	if cfg.Storage.Enabled {
		log.Println("🪣 Initializing MinIO report publisher...")
		minioPublisher, err := storage.NewMinIOPublisher(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize MinIO publisher: %v", err)
		}
		publisher = minioPublisher
	}

	// Initialize interview service
	log.Println("✨ Initializing interview service...")
	interviewService := interview.NewService(
		sessionRepo,
		reportRepo,
		attentionRepo,
		tokenManager,
		gradingEngine,
		llmClient,
		renderer,
		transcriptStore,
		publisher,
		sweeper,
		cfg.Interview.AttentionWindow,
		logger,
	)

	// Initialize rate limiting
	if cfg.RateLimit.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, falling back to in-memory rate limiting: %v", err)
			e.Use(httpmw.RateLimit(cache.NewMemoryCounter(), cfg.RateLimit.RequestsPerMinute, logger))
		} else {
			defer redisClient.Close()
			e.Use(httpmw.RateLimit(httpmw.NewRedisCounter(redisClient), cfg.RateLimit.RequestsPerMinute, logger))
		}
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	credentialAuth := httpmw.NewCredentialAuth(tokenManager)
	interviewHandler := handler.NewInterview(interviewService, logger)
	transcriptHandler := handler.NewTranscript(transcriptStore, tokenManager, logger)
	reportHandler := handler.NewReport(interviewService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, credentialAuth, interviewHandler, transcriptHandler, reportHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
