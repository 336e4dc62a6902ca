package config

import "testing"

func TestNewFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"KURV_PORT", "KURV_DB_PATH", "KURV_LOG_LEVEL", "KURV_LOG_FORMAT",
		"KURV_S3_BUCKET", "KURV_S3_ACCESS_KEY", "KURV_S3_SECRET_KEY",
		"KURV_BACKUP_PASSPHRASE", "KURV_BACKUP_INTERVAL_HOURS", "KURV_BACKUP_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("new from env: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "kurv.db" {
		t.Errorf("db path = %q, want kurv.db", cfg.DBPath)
	}
	if cfg.Backup.IntervalHours != 24 {
		t.Errorf("interval = %d, want 24", cfg.Backup.IntervalHours)
	}
	if cfg.Backup.RetentionDays != 30 {
		t.Errorf("retention = %d, want 30", cfg.Backup.RetentionDays)
	}
	if cfg.Backup.Enabled() {
		t.Error("backup should be disabled without S3 settings")
	}
}

func TestNewFromEnvOverrides(t *testing.T) {
	t.Setenv("KURV_PORT", "9000")
	t.Setenv("KURV_S3_BUCKET", "kurv-backups")
	t.Setenv("KURV_S3_ACCESS_KEY", "key")
	t.Setenv("KURV_S3_SECRET_KEY", "secret")
	t.Setenv("KURV_BACKUP_PASSPHRASE", "hunter2")
	t.Setenv("KURV_BACKUP_INTERVAL_HOURS", "6")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("new from env: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Port)
	}
	if cfg.Backup.IntervalHours != 6 {
		t.Errorf("interval = %d, want 6", cfg.Backup.IntervalHours)
	}
	if !cfg.Backup.Enabled() {
		t.Error("backup should be enabled with full S3 settings")
	}
}

func TestNewFromEnvBadInteger(t *testing.T) {
	t.Setenv("KURV_BACKUP_INTERVAL_HOURS", "often")

	if _, err := NewFromEnv(); err == nil {
		t.Error("expected error for non-integer interval")
	}
}
