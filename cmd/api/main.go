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

	pkgvalidator "github.com/meetinglens/meetinglens/pkg/validator"

	"github.com/meetinglens/meetinglens/internal/adapter/handler"
	"github.com/meetinglens/meetinglens/internal/adapter/repository"
	"github.com/meetinglens/meetinglens/internal/infrastructure/database"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/mail"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/notion"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/slack"
	"github.com/meetinglens/meetinglens/internal/infrastructure/storage"
	"github.com/meetinglens/meetinglens/internal/infrastructure/vectorstore"
	"github.com/meetinglens/meetinglens/internal/usecase/analysis"
	"github.com/meetinglens/meetinglens/internal/usecase/export"
	"github.com/meetinglens/meetinglens/internal/usecase/meeting"
	"github.com/meetinglens/meetinglens/internal/usecase/rag"
	"github.com/meetinglens/meetinglens/internal/usecase/transcription"
	pkgai "github.com/meetinglens/meetinglens/pkg/ai"
	"github.com/meetinglens/meetinglens/pkg/config"
)

const maxConcurrentTranscriptions = 4

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

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if cfg.Server.Environment != "production" {
		logger, err = zap.NewDevelopment()
	}
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

	// Schema migrations only run when explicitly enabled. Production
	// deployments manage schema via sql-migrate in CI/CD.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with sql-migrate instead.")
		}
		log.Println("🔄 Applying schema migrations (development only) ...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping schema migrations; use sql-migrate for CI/CD/production")
	}

	// Initialize Redis for the retrieval index
	log.Println("📦 Connecting to Redis...")
	redisClient, err := vectorstore.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage for transcript artifacts. Optional: the
	// pipeline runs without it, artifacts are simply not kept.
	var artifacts transcription.ArtifactStore
	log.Println("🪣 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, transcript artifacts disabled: %v", err)
	} else {
		artifacts = minioClient
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	vectorRepo := vectorstore.NewRedisVectorStore(redisClient)

	// Initialize AI clients
	log.Println("🤖 Initializing AI clients...")
	asmClient := pkgai.NewAssemblyAIClient(&cfg.Assembly)
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)

	// Initialize pipeline services
	transcriptionService := transcription.NewService(asmClient, artifacts, maxConcurrentTranscriptions, logger)
	analysisService := analysis.NewService(geminiClient, logger)
	ragEngine := rag.NewEngine(geminiClient, geminiClient, vectorRepo, cfg.RAG, logger)
	pipeline := meeting.NewService(transcriptionService, analysisService, meetingRepo, ragEngine, cfg.Server.TempDir, logger)

	// Initialize export destinations
	log.Println("📤 Initializing export destinations...")
	slackClient := slack.NewClient(&cfg.Slack)
	mailSender := mail.NewSender(cfg.Email)
	notionClient := notion.NewClient(&cfg.Notion)
	exportService := export.NewService(slackClient, mailSender, notionClient, logger)

	// Initialize handlers
	meetingHandler := handler.NewMeetingHandler(pipeline, meetingRepo, logger)
	ragHandler := handler.NewRAGHandler(ragEngine, logger)
	exportHandler := handler.NewExportHandler(exportService, cfg.Notion.DatabaseID, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, meetingHandler, ragHandler, exportHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
