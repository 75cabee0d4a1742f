package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staywise/helpdesk/internal/analytics"
	"github.com/staywise/helpdesk/internal/llm"
	"github.com/staywise/helpdesk/internal/notify"
	"github.com/staywise/helpdesk/internal/pipeline"
	"github.com/staywise/helpdesk/internal/server"
	"github.com/staywise/helpdesk/internal/storage"
	"github.com/staywise/helpdesk/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	// Initialize storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	// Initialize the language-model collaborator
	client, err := llm.New(llm.Config{
		Provider:        cfg.LLM.Provider,
		OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
		AnthropicAPIKey: cfg.LLM.AnthropicAPIKey,
		Model:           cfg.LLM.Model,
		MaxTokens:       cfg.LLM.MaxTokens,
		Temperature:     cfg.LLM.Temperature,
	})
	if err != nil {
		logger.Fatal("Failed to initialize llm client", zap.Error(err))
	}

	// Initialize the processing pipeline
	runner := pipeline.NewRunner(client, pipeline.NewRegistry(), logger, pipeline.Options{
		LLMTimeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		StageDelay: time.Duration(cfg.Pipeline.StageDelayMS) * time.Millisecond,
		Debug:      cfg.Pipeline.Debug,
	})

	// Initialize escalation channels
	notifier := newNotifier(cfg, logger)

	// Initialize the analytics snapshot
	stats := analytics.NewSnapshotter(store, logger)
	if err := stats.Start(cfg.Analytics.RefreshSchedule); err != nil {
		logger.Fatal("Failed to start analytics scheduler", zap.Error(err))
	}
	defer stats.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.New(store, runner, stats, notifier, logger).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Helpdesk listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}

func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		logger.Info("Using SQLite storage", zap.String("path", cfg.Database.Path))
		return storage.NewSQLiteStorage(cfg.Database.Path)
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		return storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
	default:
		logger.Warn("Unknown database driver, falling back to in-memory",
			zap.String("driver", cfg.Database.Driver))
		return storage.NewMemoryStorage(), nil
	}
}

func newNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	var channels []notify.Notifier
	if cfg.Notify.Telegram.Token != "" && cfg.Notify.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			logger.Error("Failed to initialize telegram notifier", zap.Error(err))
		} else {
			logger.Info("Telegram escalations enabled")
			channels = append(channels, tg)
		}
	}
	if cfg.Notify.Slack.Token != "" && cfg.Notify.Slack.Channel != "" {
		logger.Info("Slack escalations enabled", zap.String("channel", cfg.Notify.Slack.Channel))
		channels = append(channels, notify.NewSlackNotifier(cfg.Notify.Slack.Token, cfg.Notify.Slack.Channel))
	}
	if len(channels) == 0 {
		logger.Info("No escalation channels configured")
		return nil
	}
	return notify.NewMulti(logger, channels...)
}
