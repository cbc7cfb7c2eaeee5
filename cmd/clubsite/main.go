// Package main запускает HTTP-сервер микросайта клуба.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/clubsite-analytics/internal/cache"
	"github.com/mmeshcher/clubsite-analytics/internal/config"
	"github.com/mmeshcher/clubsite-analytics/internal/handler"
	"github.com/mmeshcher/clubsite-analytics/internal/metrics"
	"github.com/mmeshcher/clubsite-analytics/internal/middleware"
	"github.com/mmeshcher/clubsite-analytics/internal/repository"
	"github.com/mmeshcher/clubsite-analytics/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		sugar.Warnw("failed to load .env file", "error", err.Error())
	}

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	loc, err := cfg.Location()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		pgRepo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		repo = pgRepo
	} else {
		sugar.Info("DATABASE_URI is empty, using in-memory demo club")
		repo = repository.NewMemoryRepository(repository.DemoClub())
	}

	var reportCache service.ReportCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			sugar.Warnw("redis unavailable, report cache disabled", "addr", cfg.RedisAddr, "error", err.Error())
		} else {
			rc := cache.NewReportCache(client, cfg.CacheTTL)
			defer rc.Close()
			reportCache = rc
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	analyticsMetrics := metrics.NewAnalyticsMetrics(registry)

	svc := service.NewService(repo, reportCache, analyticsMetrics, logger, service.Options{
		Seed:            cfg.Seed,
		Days:            cfg.Days,
		Location:        loc,
		RefreshInterval: cfg.RefreshInterval,
	})
	defer svc.Close()

	adminMiddleware := middleware.NewAdminMiddleware(cfg.AdminKey)
	if !adminMiddleware.Enabled() {
		sugar.Warn("ADMIN_KEY is empty, admin API is not protected")
	}

	h := handler.NewHandler(svc, logger, adminMiddleware, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), loc)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Фоновый прогрев кэша отчётов
	g.Go(func() error {
		svc.StartReportRefresh(ctx)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting clubsite server", "addr", cfg.RunAddress, "seed", cfg.Seed, "days", cfg.Days)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
