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

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-booking/internal/db"
	"github.com/BruksfildServices01/salon-booking/internal/handlers"
	"github.com/BruksfildServices01/salon-booking/internal/logger"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
	"github.com/BruksfildServices01/salon-booking/internal/routes"
	"github.com/BruksfildServices01/salon-booking/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}

	// Redis only carries notifications; the API serves without it.
	rdb := notify.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Close()
	if err := notify.Ping(context.Background(), rdb); err != nil {
		zl.Warn("redis unavailable, notifications will be dropped", zap.Error(err))
	}
	sender := notify.NewRedisSender(rdb, cfg.NotifyChannel)

	notifier := notify.NewDispatcher(sender, zl.Named("notify"), 256)
	auditDispatcher := audit.NewDispatcher(audit.New(db), zl.Named("audit"))

	deps := routes.Dependencies{
		DB:       db,
		Config:   cfg,
		Logger:   zl,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Probes:   map[string]handlers.Pinger{"redis": sender},
	}
	if cfg.StorageEnabled() {
		deps.Images = storage.NewImageUploader(storage.NewS3Store(cfg))
	} else {
		zl.Info("S3_BUCKET not set, image uploads disabled")
	}

	r := routes.NewEngine(cfg, zl)
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}

	notifier.Close()
	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
