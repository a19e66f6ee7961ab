package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken              string
	LogLevel              string
	PollTimeoutSeconds    int
	Timezone              string
	AuditFile             string
	AutoDeleteSeconds     int
	PendingKickTTLSeconds int
	DatabaseURL           string
	S3Endpoint            string
	S3AccessKey           string
	S3SecretKey           string
	S3UseSSL              bool
	S3Bucket              string
}

func Load() (Config, error) {
	pollTimeout, err := getInt("POLL_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Config{}, err
	}

	autoDelete, err := getInt("AUTO_DELETE_SECONDS", 5)
	if err != nil {
		return Config{}, err
	}

	pendingTTL, err := getInt("PENDING_KICK_TTL_SECONDS", 600)
	if err != nil {
		return Config{}, err
	}

	s3UseSSL, err := getBool("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BotToken:              strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		LogLevel:              getString("LOG_LEVEL", "info"),
		PollTimeoutSeconds:    pollTimeout,
		Timezone:              getString("TIMEZONE", "Asia/Shanghai"),
		AuditFile:             getString("AUDIT_FILE", "ban_records.xlsx"),
		AutoDeleteSeconds:     autoDelete,
		PendingKickTTLSeconds: pendingTTL,
		DatabaseURL:           strings.TrimSpace(os.Getenv("DATABASE_URL")),
		S3Endpoint:            getString("S3_ENDPOINT", ""),
		S3AccessKey:           getString("S3_ACCESS_KEY", ""),
		S3SecretKey:           getString("S3_SECRET_KEY", ""),
		S3UseSSL:              s3UseSSL,
		S3Bucket:              getString("S3_BUCKET", ""),
	}

	if cfg.PollTimeoutSeconds <= 0 {
		cfg.PollTimeoutSeconds = 30
	}
	if cfg.AutoDeleteSeconds <= 0 {
		cfg.AutoDeleteSeconds = 5
	}

	return cfg, nil
}

func (c Config) AutoDeleteDelay() time.Duration {
	return time.Duration(c.AutoDeleteSeconds) * time.Second
}

func (c Config) PendingKickTTL() time.Duration {
	return time.Duration(c.PendingKickTTLSeconds) * time.Second
}

func (c Config) IsArchiveEnabled() bool {
	return strings.TrimSpace(c.S3Endpoint) != "" && strings.TrimSpace(c.S3Bucket) != ""
}

func getString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
