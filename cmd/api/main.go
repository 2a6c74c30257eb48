package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicbooking/backend/internal/adapters/cache"
	"github.com/zatekoja/clinicbooking/backend/internal/adapters/database"
	"github.com/zatekoja/clinicbooking/backend/internal/adapters/events"
	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/api/routes"
	"github.com/zatekoja/clinicbooking/backend/internal/application/services"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/redis"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/notifications"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/security"
	"github.com/zatekoja/clinicbooking/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx := context.Background()

	// Initialize OpenTelemetry
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to setup OpenTelemetry")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare database schema")
	}

	// Redis backs the OTP rate limiter and the cross-instance event bus.
	// Without it both fall back to in-process implementations.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
		cachePinger   handlers.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()

		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		cachePinger = redisClient
	} else {
		log.Info().Msg("Redis disabled, using in-memory event bus")
		eventBus = events.NewMemoryEventBus()
	}

	// Repositories
	userRepo := database.NewUserAdapter(pgClient)
	adminRepo := database.NewAdminUserAdapter(pgClient)
	otpRepo := database.NewOTPAdapter(pgClient)
	doctorRepo := database.NewDoctorAdapter(pgClient)
	clinicServiceRepo := database.NewClinicServiceAdapter(pgClient)
	appointmentRepo := database.NewAppointmentAdapter(pgClient)
	campaignRepo := database.NewCampaignAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	notificationRepo := database.NewNotificationAdapter(sqlx.NewDb(pgClient.DB(), "postgres"))

	// Delivery channels
	var pushSender providers.PushSender
	if cfg.Firebase.Enabled {
		sender, err := notifications.NewFirebaseSender(ctx, &cfg.Firebase)
		if err != nil {
			log.Warn().Err(err).Msg("push notifications disabled")
		} else {
			pushSender = sender
		}
	}

	var otpChannel providers.OTPChannel
	if cfg.WhatsApp.WhatsAppEnabled() {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Warn().Err(err).Msg("WhatsApp OTP delivery disabled")
		} else {
			otpChannel = sender
		}
	} else {
		log.Warn().Msg("WhatsApp credentials not set, OTP codes will not be delivered")
	}

	tokenIssuer := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := security.NewBcryptHasher(0)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, pushSender)
	notificationService.SetMetrics(metrics)

	authService := services.NewAuthService(userRepo, adminRepo, otpRepo, tokenIssuer, hasher, otpChannel, services.AuthOptions{
		OTPTTL:            cfg.Auth.OTPTTL,
		DevMode:           cfg.Auth.OTPDevMode,
		MinPasswordLength: cfg.Auth.AdminMinPassword,
	})
	authService.SetMetrics(metrics)

	catalogService := services.NewCatalogService(doctorRepo, clinicServiceRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, doctorRepo, clinicServiceRepo, notificationService, eventBus)
	campaignService := services.NewCampaignService(campaignRepo, userRepo, notificationService)
	reviewService := services.NewReviewService(reviewRepo)
	statsService := services.NewStatsService(appointmentRepo, userRepo, doctorRepo, reviewRepo)

	// Handlers
	otpLimiter := handlers.NewRateLimiter(cacheProvider, cfg.Auth.OTPRateLimit, cfg.Auth.OTPRateWindow)

	router := routes.NewRouter(
		middleware.NewAuth(tokenIssuer),
		handlers.NewHealthHandler(pgClient, cachePinger),
		handlers.NewAuthHandler(authService, otpLimiter),
		handlers.NewCatalogHandler(catalogService),
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewCampaignHandler(campaignService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewReviewHandler(reviewService),
		handlers.NewStatsHandler(statsService),
		handlers.NewSSEHandler(eventBus),
		cfg.Server.AllowedOrigins,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays zero so the SSE stream is not cut.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("env", cfg.Server.Environment).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Close the bus first so open SSE streams end and Shutdown can drain.
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
