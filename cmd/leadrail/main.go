package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/leadrail/leadrail/internal/activity"
	"github.com/leadrail/leadrail/internal/adapters/cache/redis"
	"github.com/leadrail/leadrail/internal/adapters/email/logonly"
	"github.com/leadrail/leadrail/internal/adapters/email/smtp"
	"github.com/leadrail/leadrail/internal/adapters/policy/plan"
	"github.com/leadrail/leadrail/internal/adapters/storage/sqlite"
	"github.com/leadrail/leadrail/internal/automation"
	"github.com/leadrail/leadrail/internal/board"
	"github.com/leadrail/leadrail/internal/config"
	"github.com/leadrail/leadrail/internal/core/ports"
	"github.com/leadrail/leadrail/internal/server"
	"github.com/leadrail/leadrail/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := os.Getenv("LEADRAIL_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer("leadrail", logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	store, err := sqlite.NewProvider(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Form reads sit on the hot path of every board render and automation
	// event; Redis, when configured, keeps them off the database.
	var forms ports.FormReadModel = store
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		forms = redis.NewFormReader(store, client, cfg.Redis.TTL, logger)
		logger.Info("form cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	var transport ports.EmailTransport
	if cfg.SMTP.Host != "" {
		transport, err = smtp.NewTransport(smtp.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			log.Fatalf("Failed to configure SMTP transport: %v", err)
		}
	} else {
		transport = logonly.NewTransport(logger)
		logger.Info("no SMTP host configured, using log-only email transport")
	}

	pool := automation.NewPool(transport, automation.PoolConfig{
		Workers:     cfg.Automation.Workers,
		QueueSize:   cfg.Automation.QueueSize,
		SendTimeout: cfg.Automation.SendTimeout,
		Logger:      logger,
	})
	defer pool.Close()

	features := plan.NewFeatures()

	dispatcher := automation.NewDispatcher(automation.DispatcherConfig{
		Forms:    forms,
		Rules:    store,
		Features: features,
		Sender:   pool,
		Logger:   logger,
	})

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
		Storage:        store,
		Forms:          forms,
		Features:       features,
		Board:          board.NewAssembler(store, store, forms, board.WithLogger(logger)),
		Activities:     activity.NewRecorder(store, logger),
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.Port),
		Handler: srv.Router,
	}

	go func() {
		logger.Info("starting server", slog.Int("port", srv.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server shutdown complete")
}
