package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"medassist/internal/config"
	"medassist/internal/fallback"
	"medassist/internal/http"
	"medassist/internal/llm"
	"medassist/internal/service"
	"medassist/internal/storage"
	"medassist/web"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize transcript database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	sessionRepo := storage.NewSessionRepo(db)
	messageRepo := storage.NewMessageRepo(db)

	// Create model backend client and start probing its readiness in the
	// background; the fallback responder answers until it comes up.
	modelClient := llm.NewClient(cfg.ModelBaseURL, cfg.ModelAPIKey, cfg.ModelName)
	prober := llm.NewProber(modelClient, cfg.ProbeInterval)
	prober.Start(context.Background())
	slog.Info("Model backend probe started", "base_url", cfg.ModelBaseURL, "interval", cfg.ProbeInterval)

	responder := fallback.NewResponder()

	chatService := service.NewChatService(modelClient, prober, responder, sessionRepo, messageRepo)

	// Create router with dependencies
	deps := &http.Deps{
		ChatService:    chatService,
		DB:             db,
		Model:          prober,
		Sessions:       sessionRepo,
		Messages:       messageRepo,
		Assets:         web.Assets,
		ChatRateLimit:  cfg.ChatRateLimit,
		ChatRateWindow: cfg.ChatRateWindow,
	}
	router, err := http.NewRouter(deps)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Model backend configuration", "base_url", cfg.ModelBaseURL, "model", cfg.ModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
