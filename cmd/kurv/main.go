package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madplan/kurv/internal/backup"
	"github.com/madplan/kurv/internal/config"
	"github.com/madplan/kurv/internal/database"
	"github.com/madplan/kurv/internal/logging"
	"github.com/madplan/kurv/internal/server"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.Endpoint,
			Bucket:    cfg.Backup.Bucket,
			Region:    cfg.Backup.Region,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
		},
		DBPath:        cfg.DBPath,
		Passphrase:    cfg.Backup.Passphrase,
		Interval:      time.Duration(cfg.Backup.IntervalHours) * time.Hour,
		RetentionDays: cfg.Backup.RetentionDays,
	}

	srv := server.New(db, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := srv.BackupManager()
	if mgr.Enabled() {
		mgr.Start(ctx)
		defer mgr.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("kurv listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
