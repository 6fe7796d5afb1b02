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

	"github.com/careloop/symptom-intake/internal/adapters/cache"
	"github.com/careloop/symptom-intake/internal/adapters/database"
	"github.com/careloop/symptom-intake/internal/adapters/events"
	"github.com/careloop/symptom-intake/internal/adapters/state"
	"github.com/careloop/symptom-intake/internal/api/handlers"
	"github.com/careloop/symptom-intake/internal/api/routes"
	"github.com/careloop/symptom-intake/internal/application/services"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	"github.com/careloop/symptom-intake/internal/infrastructure/clients/openai"
	"github.com/careloop/symptom-intake/internal/infrastructure/clients/postgres"
	"github.com/careloop/symptom-intake/internal/infrastructure/clients/redis"
	"github.com/careloop/symptom-intake/internal/infrastructure/notifications"
	"github.com/careloop/symptom-intake/internal/infrastructure/observability"
	"github.com/careloop/symptom-intake/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client. Engine state (risk records, schedules,
	// metrics) lives here, so unlike a pure cache this is required.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis client initialized successfully")

	// Initialize adapters

	consultationAdapter := database.NewConsultationAdapter(pgClient)
	notificationLogAdapter := database.NewNotificationLogAdapter(pgClient.DBX())

	cacheProvider := cache.NewRedisAdapter(redisClient)
	stateStore := state.NewStore(cacheProvider)

	// Initialize event bus for real-time updates
	eventBus := events.NewRedisEventBus(redisClient)
	log.Println("Event bus initialized successfully")

	var adviceProvider providers.AdviceProvider
	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; advice generation disabled, scoring falls back to local patterns")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			adviceProvider = openaiClient
		}
	}

	var notifier providers.NotificationProvider
	if cfg.WhatsApp.AccessToken == "" || cfg.WhatsApp.PhoneNumberID == "" {
		log.Println("Warning: WhatsApp credentials are not set; follow-up delivery disabled")
	} else {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Printf("Warning: Failed to initialize WhatsApp sender: %v", err)
		} else {
			notifier = sender
		}
	}

	// Initialize services

	scheduler := services.NewFollowUpScheduler(
		stateStore,
		notifier,
		notificationLogAdapter,
		eventBus,
		metrics,
		cfg.Server.BaseURL,
	)
	defer scheduler.Stop()

	// Resolve any follow-up left pending by a previous process. The
	// in-process timer died with it; the persisted schedule did not.
	if err := scheduler.CatchUp(ctx, "default"); err != nil {
		log.Printf("Warning: startup follow-up catch-up failed: %v", err)
	}

	triageService := services.NewTriageService(
		consultationAdapter,
		adviceProvider,
		stateStore,
		scheduler,
		metrics,
	)
	outcomeService := services.NewOutcomeService(stateStore, eventBus)
	recoveryService := services.NewRecoveryService(consultationAdapter, stateStore, cfg.Engine.StaleConsultationDays)
	analyticsService := services.NewAnalyticsService(consultationAdapter)
	dashboardService := services.NewDashboardService(scheduler, stateStore, recoveryService, analyticsService)

	// Initialize handlers

	consultationHandler := handlers.NewConsultationHandler(triageService, recoveryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, analyticsService)
	followUpHandler := handlers.NewFollowUpHandler(outcomeService)

	// Set up router

	router := routes.NewRouter(
		consultationHandler,
		dashboardHandler,
		followUpHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if err := eventBus.Close(); err != nil {
		log.Printf("Error closing event bus: %v", err)
	}

	log.Println("Server stopped")
}
