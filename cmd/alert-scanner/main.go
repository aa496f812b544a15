package main

import (
	"context"
	"os"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/config"
	"github.com/Alicia-Alexia/sub-manager/internal/db"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/notifier"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// The scanner runs as a short-lived job (cron or a scheduler pod): one scan
// pass, then exit. A non-zero exit means the scan itself could not run.
func main() {
	zapLog, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := zapLog.Sugar()

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Errorw("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Database.DSN == "" {
		log.Errorw("DATABASE_DSN is required")
		os.Exit(1)
	}

	var channels []notifier.Channel
	if cfg.Alerts.DiscordWebhookURL != "" {
		channels = append(channels, notifier.NewDiscordChannel(cfg.Alerts.DiscordWebhookURL))
	}
	if cfg.Alerts.EmailAPIURL != "" && cfg.Alerts.EmailAPIKey != "" {
		channels = append(channels, notifier.NewEmailChannel(cfg.Alerts.EmailAPIURL, cfg.Alerts.EmailAPIKey, cfg.Alerts.EmailFrom))
	}
	if len(channels) == 0 {
		log.Errorw("No notification channel configured, set DISCORD_WEBHOOK_URL or EMAIL_API_URL and EMAIL_API_KEY")
		os.Exit(1)
	}

	dbClient, err := db.NewDBClient(cfg.Database.DSN, logger.New(logger.WARN))
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repoLog := logger.New(logger.WARN)
	subRepo := repository.NewPostgresSubscriptionRepository(dbClient.DB(), repoLog)
	profileRepo := repository.NewPostgresProfileRepository(dbClient.DB(), repoLog)

	scanner := notifier.NewScanner(
		subRepo,
		profileRepo,
		channels,
		metrics.NewAlertMetrics(prometheus.NewRegistry()),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := scanner.Run(ctx); err != nil {
		log.Errorw("Scan failed", "error", err)
		os.Exit(1)
	}
}
