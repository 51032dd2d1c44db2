package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/careerbot/internal/api"
	"github.com/RichardoC/careerbot/internal/chat"
	"github.com/RichardoC/careerbot/internal/config"
	"github.com/RichardoC/careerbot/internal/db"
	"github.com/RichardoC/careerbot/internal/llm"
	"github.com/RichardoC/careerbot/internal/logging"
	"github.com/RichardoC/careerbot/internal/telemetry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not loaded: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
		FilePath:    cfg.LogFilePath,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.TelemetryEnabled, cfg.TelemetryDir)
	if err != nil {
		logger.Fatal("failed to initialize telemetry", zap.Error(err))
	}

	backend := db.Open(ctx, db.Options{
		CredentialsPath: cfg.FirebaseCredentialsPath,
		ProjectID:       cfg.FirestoreProjectID,
		SQLitePath:      cfg.DocstoreSQLitePath,
		LocalPath:       cfg.LocalStorePath,
	}, logger)

	llmService := llm.NewService(
		llm.NewProvider(ctx, cfg, logger),
		logger,
		llm.WithTimeout(cfg.ProviderTimeout),
		llm.WithConcurrency(cfg.ProviderConcurrency),
	)

	handler := api.NewHandler(chat.NewRepository(backend.Store), llmService, api.Environment{
		GeminiKeyPresent: cfg.GeminiAPIKey != "",
		OpenAIKeyPresent: cfg.OpenAIAPIKey != "",
		StorageMode:      backend.Mode,
		StorageDriver:    backend.Driver,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.Addr),
			zap.String("storage_mode", string(backend.Mode)),
			zap.String("model_provider", llmService.ProviderName()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
	if err := backend.Store.Close(); err != nil {
		logger.Error("failed to close chat storage", zap.Error(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("failed to shut down telemetry", zap.Error(err))
	}
}
