package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/highrangestar/quotation-api/docs"
	"github.com/highrangestar/quotation-api/internal/archive"
	"github.com/highrangestar/quotation-api/internal/auth"
	"github.com/highrangestar/quotation-api/internal/config"
	"github.com/highrangestar/quotation-api/internal/database"
	"github.com/highrangestar/quotation-api/internal/http/handler"
	"github.com/highrangestar/quotation-api/internal/http/middleware"
	"github.com/highrangestar/quotation-api/internal/http/router"
	"github.com/highrangestar/quotation-api/internal/jobs"
	"github.com/highrangestar/quotation-api/internal/logger"
	"github.com/highrangestar/quotation-api/internal/repository"
	"github.com/highrangestar/quotation-api/internal/service"
	"github.com/highrangestar/quotation-api/internal/storage"
	"go.uber.org/zap"
)

// @title HRS Quotation API
// @version 1.0
// @description Quotation thread and document workflow API for High Range Star
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email it@highrangestar.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "hrs-quotation-staging.azurewebsites.net"
	case "production":
		docs.SwaggerInfo.Host = "api.highrangestar.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run schema migrations automatically outside production
	if cfg.App.Environment != "production" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize legacy accounts archive connection (optional, read-only).
	// The app continues without it if not configured or unreachable.
	var archiveClient *archive.Client
	if cfg.Archive.Enabled {
		archiveClient, err = archive.NewClient(&cfg.Archive, log)
		if err != nil {
			log.Warn("Archive connection failed, continuing without it",
				zap.Error(err),
			)
		} else if archiveClient != nil {
			log.Info("Archive connected successfully",
				zap.Int("query_timeout_seconds", cfg.Archive.QueryTimeout),
			)
		}
	} else {
		log.Info("Archive not configured, skipping")
	}

	// Initialize repositories
	threadRepo := repository.NewThreadRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	vesselRepo := repository.NewVesselRepository(db)
	archivedRefRepo := repository.NewArchivedReferenceRepository(db)

	// Initialize services
	refIDService := service.NewRefIDService(threadRepo, archivedRefRepo, log)
	threadService := service.NewThreadService(db, threadRepo, quotationRepo, documentRepo, vesselRepo, refIDService, fileStorage, log)
	quotationService := service.NewQuotationService(db, threadRepo, quotationRepo, vesselRepo, log)
	documentService := service.NewDocumentService(threadRepo, documentRepo, fileStorage, log)
	vesselService := service.NewVesselService(vesselRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	threadHandler := handler.NewThreadHandler(threadService, refIDService, log)
	threadLifecycleHandler := handler.NewThreadLifecycleHandler(threadService, cfg.Storage.MaxUploadSizeMB, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	documentHandler := handler.NewDocumentHandler(documentService, cfg.Storage.MaxUploadSizeMB, log)
	vesselHandler := handler.NewVesselHandler(vesselService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		threadHandler,
		threadLifecycleHandler,
		quotationHandler,
		documentHandler,
		vesselHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Archive.Enabled && archiveClient != nil {
		scheduler = jobs.NewScheduler(log)

		archiveSyncService := service.NewArchiveSyncService(archiveClient, archivedRefRepo, log)
		if err := jobs.RegisterArchiveSyncJob(
			scheduler,
			archiveSyncService,
			log,
			cfg.Archive.SyncCron,
			cfg.Archive.SyncTimeoutDuration(),
			cfg.Archive.SyncOnStart,
		); err != nil {
			log.Error("Failed to register archive sync job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with archive sync job",
				zap.String("cron_expr", cfg.Archive.SyncCron),
				zap.Duration("timeout", cfg.Archive.SyncTimeoutDuration()),
			)
		}
	} else {
		log.Info("Archive sync disabled",
			zap.Bool("archive_enabled", cfg.Archive.Enabled),
			zap.Bool("archive_client_available", archiveClient != nil),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close archive connection if initialized
		if archiveClient != nil {
			if err := archiveClient.Close(); err != nil {
				log.Warn("Error closing archive connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
