// Package main provides the entrypoint for the staff portal API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/announcement"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/api/middleware"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/auth"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/database"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/provider/resilience"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/push"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/shift"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/telemetry"
	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "broadoak-portal-api"

	// Load .env if present (local development)
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting staff portal API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     os.Getenv("JWT_ISSUER"),
		Audience:   os.Getenv("JWT_AUDIENCE"),
	})

	// VAPID keys for web push
	vapidKeys, generated, err := push.VAPIDKeysFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load VAPID keys")
	}
	if generated {
		// Generated keys are ephemeral; existing browser subscriptions
		// become undeliverable on restart. Fine for local development only.
		log.Warn().
			Str("public_key", vapidKeys.PublicKey).
			Msg("generated ephemeral VAPID keys - set VAPID_PUBLIC_KEY/VAPID_PRIVATE_KEY in production")
	}

	// Push delivery: one circuit breaker per push service host, no in-call
	// retries (a failed delivery stays failed for this dispatch).
	pushServices := resilience.NewRegistry(resilience.NoRetryClientConfig)
	sender := notify.NewWebPushSender(notify.WebPushSenderConfig{
		Keys:    vapidKeys,
		Clients: pushServices,
	})

	deliveryMetrics, err := notify.NewDeliveryMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize delivery metrics")
	}

	pushRepo := push.NewPostgresRepository(pool)
	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Repo:    pushRepo,
		Sender:  sender,
		Metrics: deliveryMetrics,
		Logger:  log,
	})
	log.Info().Msg("dispatcher initialized")

	// Notification jobs: publish to Pub/Sub when configured, otherwise
	// dispatch inline.
	var notifier interface {
		shift.Notifier
		announcement.Broadcaster
	}
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topicName := os.Getenv("PUBSUB_TOPIC")
		if topicName == "" {
			topicName = "notification-jobs"
		}
		publisher, err := worker.NewPublisher(ctx, worker.PublisherConfig{
			ProjectID: projectID,
			TopicName: topicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub publisher")
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()
		notifier = publisher
		log.Info().Str("topic", topicName).Msg("pubsub publisher initialized")
	} else {
		notifier = worker.NewInlineNotifier(dispatcher, log)
		log.Info().Msg("no pubsub project configured - dispatching inline")
	}

	// Initialize shift repository and service
	shiftRepo := shift.NewPostgresRepository(pool)
	shiftService := shift.NewService(shift.ServiceConfig{
		Repo:     shiftRepo,
		Notifier: notifier,
		Logger:   log,
	})
	log.Info().Msg("shift service initialized")

	// Initialize announcement repository and service
	announcementRepo := announcement.NewPostgresRepository(pool)
	announcementService := announcement.NewService(announcement.ServiceConfig{
		Repo:        announcementRepo,
		Broadcaster: notifier,
		Logger:      log,
	})
	log.Info().Msg("announcement service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:             Version,
		BuildTime:           BuildTime,
		Logger:              log,
		ServiceName:         serviceName,
		Metrics:             metrics,
		JWTService:          jwtService,
		DB:                  pool,
		PushServices:        pushServices,
		PushRepo:            pushRepo,
		VAPIDKeys:           vapidKeys,
		Dispatcher:          dispatcher,
		ShiftService:        shiftService,
		AnnouncementService: announcementService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
