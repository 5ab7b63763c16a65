package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/kiosk-api/internal/handler"
	"github.com/noah-isme/kiosk-api/internal/repository"
	"github.com/noah-isme/kiosk-api/internal/server"
	"github.com/noah-isme/kiosk-api/internal/service"
	"github.com/noah-isme/kiosk-api/pkg/cache"
	"github.com/noah-isme/kiosk-api/pkg/clock"
	"github.com/noah-isme/kiosk-api/pkg/config"
	"github.com/noah-isme/kiosk-api/pkg/database"
	"github.com/noah-isme/kiosk-api/pkg/logger"
)

// @title Kiosk API
// @version 1.0.0
// @description School information kiosk backend
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "api")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.System{}
	validate := validator.New()
	metrics := service.NewMetricsService()

	bells, err := repository.NewBellCSVRepository(cfg.Sources.BellsFile).Load()
	if err != nil {
		logr.Sugar().Fatalw("failed to load bell timetable", "path", cfg.Sources.BellsFile, "error", err)
	}
	store := repository.NewSnapshotStore(bells)

	var db *sqlx.DB
	var schedules service.ScheduleSource
	if cfg.Sources.Schedule == config.SourcePostgres {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close()
		schedules = repository.NewScheduleSQLRepository(db, logr)
	} else {
		schedules = repository.NewScheduleFileRepository(cfg.Sources.ScheduleFile, logr)
	}
	substitutions := repository.NewSubstitutionDocxRepository(cfg.Sources.ReplacementsFile, clk.Now, logr)

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, response cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo.Enabled())

	refresh := service.NewRefreshService(schedules, substitutions, store, cacheSvc, metrics, validate, clk, service.RefreshConfig{
		AutoRefresh: cfg.Refresh.AutoRefresh,
		Interval:    cfg.Refresh.Interval,
		Retries:     cfg.Refresh.Retries,
		RetryDelay:  cfg.Refresh.RetryDelay,
	}, logr)
	refresh.Start(ctx)
	defer refresh.Stop()

	authSvc, err := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:       cfg.JWT.Secret,
		Expiration:   cfg.JWT.Expiration,
		Passcode:     cfg.Admin.Passcode,
		PasscodeHash: cfg.Admin.PasscodeHash,
	})
	if err != nil {
		logr.Sugar().Fatalw("invalid admin credentials", "error", err)
	}

	kiosk := service.NewKioskService(store, clk, cacheSvc, metrics, cfg, logr)
	exports := service.NewExportService(store, clk, cfg.Export, logr)
	weather := service.NewWeatherService(cfg.Weather, nil, cacheSvc, metrics, clk, logr)

	checks := map[string]handler.ReadinessCheck{
		"snapshot": func(context.Context) error {
			if refresh.Status().LastAttemptAt.IsZero() {
				return errors.New("snapshots not loaded")
			}
			return nil
		},
		"redis": cacheRepo.Ping,
	}
	if db != nil {
		checks["postgres"] = db.PingContext
	}

	router := server.NewRouter(cfg, server.Handlers{
		Kiosk:   handler.NewKioskHandler(kiosk),
		Export:  handler.NewExportHandler(exports, kiosk.Now),
		Weather: handler.NewWeatherHandler(weather),
		Auth:    handler.NewAuthHandler(authSvc),
		Admin:   handler.NewAdminHandler(refresh, metrics),
		Metrics: handler.NewMetricsHandler(metrics, checks),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "schedule_source", cfg.Sources.Schedule)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
