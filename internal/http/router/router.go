package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/highrangestar/quotation-api/internal/auth"
	"github.com/highrangestar/quotation-api/internal/config"
	"github.com/highrangestar/quotation-api/internal/database"
	"github.com/highrangestar/quotation-api/internal/http/handler"
	"github.com/highrangestar/quotation-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/highrangestar/quotation-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	authMiddleware         *auth.Middleware
	rateLimiter            *middleware.RateLimiter
	threadHandler          *handler.ThreadHandler
	threadLifecycleHandler *handler.ThreadLifecycleHandler
	quotationHandler       *handler.QuotationHandler
	documentHandler        *handler.DocumentHandler
	vesselHandler          *handler.VesselHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	threadHandler *handler.ThreadHandler,
	threadLifecycleHandler *handler.ThreadLifecycleHandler,
	quotationHandler *handler.QuotationHandler,
	documentHandler *handler.DocumentHandler,
	vesselHandler *handler.VesselHandler,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		authMiddleware:         authMiddleware,
		rateLimiter:            rateLimiter,
		threadHandler:          threadHandler,
		threadLifecycleHandler: threadLifecycleHandler,
		quotationHandler:       quotationHandler,
		documentHandler:        documentHandler,
		vesselHandler:          vesselHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Threads
			r.Route("/threads", func(r chi.Router) {
				r.Get("/", rt.threadHandler.List)
				r.Get("/next-ref", rt.threadHandler.NextRefID)
				r.Get("/{id}", rt.threadHandler.GetByID)

				// Mutations require write access
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireWriter)

					r.Post("/", rt.threadHandler.Create)

					// Lifecycle transitions
					r.Post("/{id}/decline", rt.threadLifecycleHandler.Decline)
					r.Post("/{id}/undo-decline", rt.threadLifecycleHandler.UndoDecline)
					r.Post("/{id}/purchase-order", rt.threadLifecycleHandler.AttachPurchaseOrder)
					r.Post("/{id}/purchase-order/mark", rt.threadLifecycleHandler.MarkPurchaseOrder)
					r.Post("/{id}/start-work", rt.threadLifecycleHandler.StartWork)
					r.Post("/{id}/delivery-note", rt.threadLifecycleHandler.CreateDeliveryNote)
					r.Post("/{id}/delivery-note/signed", rt.threadLifecycleHandler.UploadSignedDeliveryNote)
					r.Post("/{id}/invoice", rt.threadLifecycleHandler.GenerateInvoice)
					r.Post("/{id}/complete", rt.threadLifecycleHandler.Complete)

					// Quotation revisions
					r.Post("/{id}/quotations", rt.quotationHandler.CreateRevision)
					r.Put("/{id}/quotations/{quotationId}", rt.quotationHandler.Update)
					r.Post("/{id}/quotations/{quotationId}/finalize", rt.quotationHandler.Finalize)
					r.Delete("/{id}/quotations/{quotationId}", rt.quotationHandler.Delete)

					// Documents
					r.Put("/{id}/documents/{documentId}", rt.documentHandler.Replace)
				})

				r.Get("/{id}/quotations", rt.quotationHandler.List)
				r.Get("/{id}/documents", rt.documentHandler.List)
				r.Get("/{id}/documents/{documentId}/download", rt.documentHandler.Download)
			})

			// Vessels
			r.Route("/vessels", func(r chi.Router) {
				r.Get("/", rt.vesselHandler.List)
				r.Get("/{id}", rt.vesselHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireWriter)

					r.Post("/", rt.vesselHandler.Create)
					r.Put("/{id}", rt.vesselHandler.Update)
					r.Delete("/{id}", rt.vesselHandler.Delete)
				})
			})
		})
	})

	return r
}
