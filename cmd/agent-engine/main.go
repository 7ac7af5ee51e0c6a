package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/agent/api"
	"github.com/arcbrain/arcbrain/internal/agent/executor"
	"github.com/arcbrain/arcbrain/internal/agent/provider"
	"github.com/arcbrain/arcbrain/internal/agent/repository"
	"github.com/arcbrain/arcbrain/internal/agent/scheduler"
	"github.com/arcbrain/arcbrain/internal/agent/service"
	"github.com/arcbrain/arcbrain/internal/agent/streaming"
	"github.com/arcbrain/arcbrain/internal/common/config"
	"github.com/arcbrain/arcbrain/internal/common/httpmw"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	"github.com/arcbrain/arcbrain/internal/common/tracing"
	"github.com/arcbrain/arcbrain/internal/events/bus"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetDefault(log)

	log.Info("Starting Agent Engine service...")

	// 3. Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect to the event bus. Without a NATS URL the engine runs with
	// the in-process bus, which is enough for a single-node deployment.
	var eventBus bus.EventBus
	if cfg.NATS.URL != "" {
		natsBus, err := bus.NewNATSEventBus(cfg.NATS, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		eventBus = natsBus
		log.Info("Connected to NATS event bus", zap.String("url", cfg.NATS.URL))
	} else {
		eventBus = bus.NewMemoryEventBus(log)
		log.Info("Using in-memory event bus")
	}
	defer eventBus.Close()

	// 5. Open the agent store. Postgres when a database host is configured,
	// embedded SQLite otherwise.
	var repo repository.Repository
	if cfg.Database.Host != "" {
		repo, err = repository.NewPostgresRepository(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		log.Info("Connected to Postgres", zap.String("host", cfg.Database.Host))
	} else {
		repo, err = repository.NewSQLiteRepository(cfg.Database.Path)
		if err != nil {
			log.Fatal("Failed to open SQLite database", zap.Error(err))
		}
		log.Info("Opened SQLite database", zap.String("path", cfg.Database.Path))
	}
	defer repo.Close()

	// 6. Build the generation gateway. Without an API key the gateway serves
	// mock reports only.
	var backend provider.Backend
	if cfg.Provider.APIKey != "" {
		backend = provider.NewClient(cfg.Provider, log)
	}
	gateway := provider.NewGateway(backend, cfg.Provider, log)
	log.Info("Initialized provider gateway", zap.Bool("backend_available", gateway.Available()))

	// 7. Wire the execution pipeline
	exec := executor.New(gateway, log)
	svc := service.NewService(repo, exec, eventBus, log)

	// 8. Start the due-agent scheduler
	sched := scheduler.New(svc, cfg.Scheduler, log)
	if cfg.Scheduler.Enabled {
		sched.Start()
		log.Info("Started scheduler", zap.Int("poll_interval_seconds", cfg.Scheduler.PollInterval))
	}

	// 9. Start the streaming hub
	hub := streaming.NewHub(eventBus, log)
	go hub.Run(ctx)
	wsHandler := streaming.NewWSHandler(hub, log)
	log.Info("Started streaming hub")

	// 10. Setup HTTP server with Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.OtelTracing("agent-engine"))

	// 11. Register API routes
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, svc, sched, cfg.Scheduler.CronSecret, log)
	streaming.SetupWebSocketRoutes(apiV1, wsHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "healthy",
			"backend_available": gateway.Available(),
			"event_bus":         eventBus.IsConnected(),
		})
	})

	// 12. Create HTTP server
	port := cfg.Server.Port
	if port == 0 {
		port = 8085
	}
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// 13. Start server in goroutine
	go func() {
		log.Info("HTTP server listening", zap.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 14. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Agent Engine service...")

	// 15. Graceful shutdown
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	sched.Stop()

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracing shutdown error", zap.Error(err))
	}

	log.Info("Agent Engine service stopped")
}
