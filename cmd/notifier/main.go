package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/standup-notifier/internal/application"
	"github.com/example/standup-notifier/internal/config"
	httptransport "github.com/example/standup-notifier/internal/http"
	"github.com/example/standup-notifier/internal/notify"
	"github.com/example/standup-notifier/internal/persistence/sqlite"
	"github.com/example/standup-notifier/internal/schedule"
	"github.com/example/standup-notifier/internal/zoom"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN, cfg.TableName, cfg.PartitionKey)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	verifier := zoom.NewSignatureVerifier(cfg.ZoomWebhookSecret)
	tracker := application.NewTrackerService(storage, cfg.MonitoredRoom, idGenerator, now, logger)

	webhookClient := notify.NewClient(cfg.NotificationWebhookURL, &http.Client{Timeout: 10 * time.Second})
	notification := application.NewNotificationService(storage, webhookClient, application.NotificationSettings{
		TimeZone:         cfg.StandUpTimeZone,
		WindowStart:      cfg.StandUpStart,
		WindowEnd:        cfg.StandUpEnd,
		NotificationTime: cfg.NotificationTime,
		MinimumSharing:   cfg.MinimumSharingDuration,
	}, now, logger)

	webhookHandler := httptransport.NewWebhookHandler(verifier, tracker, logger)
	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Webhook:    webhookHandler,
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	runner, err := schedule.NewRunner(cfg.NotificationCron, notification.Run, logger)
	if err != nil {
		logger.Error("failed to configure notification schedule", "error", err)
		os.Exit(1)
	}
	runner.Start()
	defer func() {
		<-runner.Stop().Done()
	}()

	if cfg.RunOnStartup {
		go runner.RunOnce(ctx, notification.Run)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("stand-up notifier listening", "addr", server.Addr, "monitored_room", cfg.MonitoredRoom)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
