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

	pkgvalidator "github.com/telmeet/conference-scheduler/pkg/validator"

	"github.com/telmeet/conference-scheduler/internal/adapter/handler"
	"github.com/telmeet/conference-scheduler/internal/adapter/repository"
	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/cache"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/database"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/external/engine"
	"github.com/telmeet/conference-scheduler/internal/usecase/roster"
	"github.com/telmeet/conference-scheduler/internal/usecase/scheduling"
	"github.com/telmeet/conference-scheduler/pkg/config"
	"github.com/telmeet/conference-scheduler/pkg/token"
)

// @title           Conference Scheduler API
// @version         1.0
// @description     API for scheduling conferences: drafts, timezone and duration catalogs, engine submission, and the scheduled-conference roster

// @host      localhost:8080
// @BasePath  /v1

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
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying schema migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	draftRepo := repository.NewDraftRepository(db)
	conferenceRepo := repository.NewConferenceRepository(db)

	// Initialize selection catalogs
	log.Println("🌍 Building selection catalogs...")
	zones := scheduling.NewTimeZoneCatalog(time.Now())
	durations := scheduling.NewDurationCatalog()

	// Initialize conferencing engine and submit locking
	var eng engine.Engine
	var locker scheduling.SubmitLocker

	if cfg.Engine.UseMock {
		log.Println("⚠️  Engine running in MOCK mode (no real server needed)")
		var account *engine.Account
		if cfg.Engine.DefaultIdentity != "" {
			identity, err := entities.ParseAddress(cfg.Engine.DefaultIdentity)
			if err != nil {
				log.Fatalf("Invalid ENGINE_DEFAULT_IDENTITY: %v", err)
			}
			account = &engine.Account{
				Identity:             identity,
				ConferenceFactoryURI: cfg.Engine.ConferenceFactory,
				E2EServerURL:         cfg.Engine.AccountE2EServerURL,
			}
		}
		eng = engine.NewMockEngine(account)
		locker = cache.NewMemoryLock()
	} else {
		// Initialize Redis
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		locker = cache.NewSubmitLock(redisClient)

		// Initialize invitation token manager
		log.Println("🔑 Initializing invitation token manager...")
		tokenManager := token.NewManager(cfg.Token.Secret, cfg.Token.InviteExpiry)

		// Initialize LiveKit-backed engine
		log.Println("🎥 Initializing LiveKit engine...")
		lkEngine := engine.NewLiveKitEngine(cfg, redisClient, tokenManager, logger)
		defer lkEngine.Close()
		eng = lkEngine
		log.Printf("✅ LiveKit connected to: %s", cfg.LiveKit.URL)
	}

	// Initialize roster service
	log.Println("📅 Initializing roster service...")
	rosterSvc := roster.NewService(eng, conferenceRepo, logger,
		roster.WithLocation(scheduling.HostLocation()))
	rosterSvc.Start()
	defer rosterSvc.Close()

	// Initialize handlers
	log.Println("🚪 Initializing handlers...")
	conferenceHandler := handler.NewConferenceHandler(
		draftRepo,
		conferenceRepo,
		eng,
		zones,
		durations,
		rosterSvc,
		locker,
		cfg.Engine.ReadyTimeout,
		logger,
	)
	catalogHandler := handler.NewCatalogHandler(zones, durations, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, conferenceHandler, catalogHandler)
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
