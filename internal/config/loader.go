package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/example/standup-notifier/internal/standup"
)

// Config captures environment driven configuration for the notifier service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	TableName    string
	PartitionKey string

	ZoomWebhookSecret string
	MonitoredRoom     string

	NotificationWebhookURL string
	StandUpTimeZone        *time.Location
	StandUpStart           standup.TimeOfDay
	StandUpEnd             standup.TimeOfDay
	NotificationTime       standup.TimeOfDay
	MinimumSharingDuration time.Duration
	NotificationCron       string
	RunOnStartup           bool
}

// envConfig is the raw environment mapping; parsed values move into Config.
type envConfig struct {
	HTTPPort     int    `env:"NOTIFIER_HTTP_PORT" envDefault:"8080"`
	SQLiteDSN    string `env:"NOTIFIER_SQLITE_DSN" envDefault:"file:standup.db?_journal_mode=WAL&_busy_timeout=5000"`
	TableName    string `env:"NOTIFIER_TABLE_NAME" envDefault:"zoom_history"`
	PartitionKey string `env:"NOTIFIER_PARTITION_KEY" envDefault:"ZoomSharing"`

	ZoomWebhookSecret string `env:"NOTIFIER_ZOOM_WEBHOOK_SECRET"`
	MonitoredRoom     string `env:"NOTIFIER_MONITORED_ROOM"`

	NotificationWebhookURL string        `env:"NOTIFIER_WEBHOOK_URL"`
	StandUpTimeZone        string        `env:"NOTIFIER_STANDUP_TIMEZONE" envDefault:"Europe/Paris"`
	StandUpStart           string        `env:"NOTIFIER_STANDUP_START" envDefault:"10:00:00"`
	StandUpEnd             string        `env:"NOTIFIER_STANDUP_END" envDefault:"10:10:00"`
	NotificationTime       string        `env:"NOTIFIER_NOTIFICATION_TIME" envDefault:"10:15:00"`
	MinimumSharingDuration time.Duration `env:"NOTIFIER_MINIMUM_SHARING_DURATION" envDefault:"1m"`
	// Six-field cron expression (with seconds), matching the timer trigger
	// format the notification schedule was originally written for.
	NotificationCron string `env:"NOTIFIER_NOTIFICATION_CRON" envDefault:"0 */5 * * * *"`
	RunOnStartup     bool   `env:"NOTIFIER_RUN_ON_STARTUP" envDefault:"false"`
}

// Load parses configuration values from the current process environment,
// applying defaults for optional fields and reporting every missing or
// invalid entry at once.
func Load() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	missing := make([]string, 0, 3)
	invalid := make([]string, 0, 4)

	if strings.TrimSpace(raw.ZoomWebhookSecret) == "" {
		missing = append(missing, "NOTIFIER_ZOOM_WEBHOOK_SECRET")
	}
	if strings.TrimSpace(raw.MonitoredRoom) == "" {
		missing = append(missing, "NOTIFIER_MONITORED_ROOM")
	}
	if strings.TrimSpace(raw.NotificationWebhookURL) == "" {
		missing = append(missing, "NOTIFIER_WEBHOOK_URL")
	}

	cfg := Config{
		HTTPPort:               raw.HTTPPort,
		SQLiteDSN:              raw.SQLiteDSN,
		TableName:              raw.TableName,
		PartitionKey:           raw.PartitionKey,
		ZoomWebhookSecret:      raw.ZoomWebhookSecret,
		MonitoredRoom:          raw.MonitoredRoom,
		NotificationWebhookURL: raw.NotificationWebhookURL,
		MinimumSharingDuration: raw.MinimumSharingDuration,
		NotificationCron:       raw.NotificationCron,
		RunOnStartup:           raw.RunOnStartup,
	}

	if raw.HTTPPort <= 0 {
		invalid = append(invalid, "NOTIFIER_HTTP_PORT")
	}
	if raw.MinimumSharingDuration <= 0 {
		invalid = append(invalid, "NOTIFIER_MINIMUM_SHARING_DURATION")
	}

	zone, err := time.LoadLocation(raw.StandUpTimeZone)
	if err != nil {
		invalid = append(invalid, "NOTIFIER_STANDUP_TIMEZONE")
	} else {
		cfg.StandUpTimeZone = zone
	}

	if cfg.StandUpStart, err = standup.ParseTimeOfDay(raw.StandUpStart); err != nil {
		invalid = append(invalid, "NOTIFIER_STANDUP_START")
	}
	if cfg.StandUpEnd, err = standup.ParseTimeOfDay(raw.StandUpEnd); err != nil {
		invalid = append(invalid, "NOTIFIER_STANDUP_END")
	}
	if cfg.NotificationTime, err = standup.ParseTimeOfDay(raw.NotificationTime); err != nil {
		invalid = append(invalid, "NOTIFIER_NOTIFICATION_TIME")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
