// Package api provides the HTTP API for the staff portal.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/announcement"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/handler"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/middleware"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/auth"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/provider/resilience"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/push"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/shift"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version             string
	BuildTime           string
	Logger              zerolog.Logger
	ServiceName         string
	Metrics             *middleware.Metrics
	JWTService          *auth.JWTService
	DB                  *pgxpool.Pool
	PushServices        *resilience.Registry
	PushRepo            push.Repository
	VAPIDKeys           *push.VAPIDKeys
	Dispatcher          *notify.Dispatcher
	ShiftService        *shift.Service
	AnnouncementService *announcement.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "broadoak-portal-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB, cfg.PushServices)
	pushHandler := handler.NewPushHandler(cfg.PushRepo, cfg.VAPIDKeys, cfg.Logger)
	shiftHandler := handler.NewShiftHandler(cfg.ShiftService, cfg.Logger)
	announcementHandler := handler.NewAnnouncementHandler(cfg.AnnouncementService, cfg.Logger)
	notifyHandler := handler.NewNotifyHandler(cfg.Dispatcher, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Application server key (public: browsers fetch it pre-login)
		r.With(standardRateLimit).Get("/push/vapid-public-key", pushHandler.VAPIDPublicKey)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			// Push subscriptions
			r.Route("/push/subscriptions", func(r chi.Router) {
				r.Get("/", pushHandler.ListSubscriptions)
				r.Post("/", pushHandler.SaveSubscription)
				r.Delete("/{subscriptionId}", pushHandler.DeleteSubscription)
			})

			// Shifts
			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListMyShifts)
				r.Route("/{shiftId}", func(r chi.Router) {
					r.Get("/", shiftHandler.GetShift)
					r.Patch("/", shiftHandler.UpdateShift)
					r.Post("/status", shiftHandler.SetShiftStatus)
					r.Delete("/", shiftHandler.DeleteShift)
				})
			})
		})

		// Shift assignment (authenticated)
		r.With(authMiddleware, standardRateLimit).Post("/shifts", shiftHandler.CreateShift)

		// Announcements (authenticated)
		r.Route("/announcements", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", announcementHandler.ListAnnouncements)
			r.Post("/", announcementHandler.CreateAnnouncement)
			r.Delete("/{announcementId}", announcementHandler.DeleteAnnouncement)
		})

		// Dispatch trigger - fans out real deliveries, strict rate limiting
		r.With(authMiddleware, expensiveRateLimit).Post("/notify/dispatch", notifyHandler.Dispatch)
	})

	return r
}
