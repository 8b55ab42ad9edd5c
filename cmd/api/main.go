package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-onboarding/internal/audit"
	"github.com/BruksfildServices01/salon-onboarding/internal/cache"
	"github.com/BruksfildServices01/salon-onboarding/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-onboarding/internal/db"
	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/media"
	"github.com/BruksfildServices01/salon-onboarding/internal/metrics"
	"github.com/BruksfildServices01/salon-onboarding/internal/routes"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		return err
	}

	redis := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redis != nil {
		defer redis.Close()
		if err := redis.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, catalog served uncached", "error", err)
		}
	}

	reporter := diagnostics.NewAsyncReporter(logger, nil)
	defer reporter.Close()

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer auditDispatcher.Close()

	m := metrics.New()

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Cache:    redis,
		Audit:    auditDispatcher,
		Reporter: reporter,
		Metrics:  m,
		Logger:   logger,
	}
	if cfg.S3.Enabled() {
		deps.Images = media.NewUploader(media.NewS3Client(cfg.S3), cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	} else {
		logger.Info("S3_BUCKET not set, image uploads disabled")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
