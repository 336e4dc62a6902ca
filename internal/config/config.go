package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration, read from the environment.
type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Backup settings; backups stay disabled unless the S3 fields are set.
	Backup BackupConfig
}

type BackupConfig struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	Passphrase    string
	IntervalHours int
	RetentionDays int
}

// Enabled reports whether enough S3 settings are present to run backups.
func (b BackupConfig) Enabled() bool {
	return b.Bucket != "" && b.AccessKey != "" && b.SecretKey != "" && b.Passphrase != ""
}

// NewFromEnv builds a Config from environment variables, applying defaults
// for everything optional.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		Port:      envOr("KURV_PORT", "8080"),
		DBPath:    envOr("KURV_DB_PATH", "kurv.db"),
		LogLevel:  envOr("KURV_LOG_LEVEL", "info"),
		LogFormat: envOr("KURV_LOG_FORMAT", "text"),
		Backup: BackupConfig{
			Endpoint:   os.Getenv("KURV_S3_ENDPOINT"),
			Bucket:     os.Getenv("KURV_S3_BUCKET"),
			Region:     envOr("KURV_S3_REGION", "auto"),
			AccessKey:  os.Getenv("KURV_S3_ACCESS_KEY"),
			SecretKey:  os.Getenv("KURV_S3_SECRET_KEY"),
			Passphrase: os.Getenv("KURV_BACKUP_PASSPHRASE"),
		},
	}

	var err error
	cfg.Backup.IntervalHours, err = envIntOr("KURV_BACKUP_INTERVAL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.Backup.RetentionDays, err = envIntOr("KURV_BACKUP_RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
