package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/thedeck/mailroom-backend/internal/api"
	"github.com/thedeck/mailroom-backend/internal/audit"
	"github.com/thedeck/mailroom-backend/internal/config"
	"github.com/thedeck/mailroom-backend/internal/database"
	"github.com/thedeck/mailroom-backend/internal/images"
	"github.com/thedeck/mailroom-backend/internal/intake"
	"github.com/thedeck/mailroom-backend/internal/mailer"
	"github.com/thedeck/mailroom-backend/internal/ocr"
	"github.com/thedeck/mailroom-backend/internal/repository"
	"github.com/thedeck/mailroom-backend/internal/services"
	"github.com/thedeck/mailroom-backend/internal/storage"
	ws "github.com/thedeck/mailroom-backend/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Mailroom Backend Server...")
	cfg.LogConfig(logger)

	// Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Attachment storage
	files, err := storage.NewLocalStorage(cfg.AttachmentStoragePath)
	if err != nil {
		logger.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories shared across the pipeline
	clientRepo := repository.NewClientRepository(db)
	mailRepo := repository.NewMailRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// WebSocket hub for review clients
	hub := ws.NewHub(logger)
	go hub.Run()

	// Intake pipeline
	store := intake.NewStore()
	normalizer := images.NewNormalizer(cfg.MaxImageDimension, cfg.JPEGQuality)
	extractor := ocr.NewHTTPExtractor(ocr.Config{
		ServiceURL: cfg.OCRServiceURL,
		Languages:  cfg.OCRLanguages,
		Timeout:    cfg.OCRTimeout,
	})
	orchestrator := intake.NewOrchestrator(store, normalizer, extractor, clientRepo, hub, logger)

	// Outbound mail
	m := buildMailer(cfg)
	auditor := audit.NewRecorder(auditRepo, logger)
	coordinator := services.NewDispatchCoordinator(
		store, clientRepo, mailRepo, files, m, auditor, hub,
		cfg.MailSubject, cfg.DispatchDelay, logger,
	)

	e := api.NewRouter(&api.RouterConfig{
		Config:       cfg,
		DB:           db,
		Store:        store,
		Orchestrator: orchestrator,
		Coordinator:  coordinator,
		Auditor:      auditor,
		Hub:          hub,
		Logger:       logger,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("HTTP server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.Any("error", err))
	}

	logger.Info("Server stopped")
}

// buildMailer selects the outbound provider from configuration
func buildMailer(cfg *config.Config) mailer.Mailer {
	if cfg.MailerProvider == config.MailerProviderSMTP {
		return mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			From: cfg.MailFrom,
		})
	}
	return mailer.NewResendMailer(mailer.ResendConfig{
		APIKey:  cfg.ResendAPIKey,
		BaseURL: cfg.ResendBaseURL,
		From:    cfg.MailFrom,
	})
}

// logLevel maps the configured level name to slog
func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
