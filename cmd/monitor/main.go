package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"crypto_monitor/internal/app/config"
	"crypto_monitor/internal/app/di"
	"crypto_monitor/internal/feature/prices/usecase"
	infradb "crypto_monitor/internal/platform/db"
	"crypto_monitor/internal/platform/logger"
	infraredis "crypto_monitor/internal/platform/redis"
)

// cycleTimeout bounds one full cycle including fallback retries.
const cycleTimeout = 5 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}
	logger.Setup(os.Stderr, cfg.Log)

	// 設定エラーはネットワークに触れる前に終了
	if err := cfg.ValidateMonitor(); err != nil {
		slog.Error("configuration error", "error", err)
		return 1
	}
	if missing := cfg.UnmappedSymbols(); len(missing) > 0 {
		slog.Warn("symbols without fallback mapping", "symbols", missing)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	// db
	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		return 1
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis（任意）: 保存時に参照APIのキャッシュを無効化する
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache invalidation.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	monitor, err := di.NewMonitor(ctx, cfg, db, rdb)
	if err != nil {
		slog.Error("failed to build monitor", "error", err)
		return 1
	}

	start := time.Now()
	report, err := monitor.RunCycle(ctx)
	if errors.Is(err, usecase.ErrNoRecords) {
		return 1
	}
	if err != nil {
		slog.Error("cycle failed", "error", err)
		return 1
	}

	slog.Info("cycle finished",
		"records", len(report.Records),
		"primary", report.Primary,
		"fallback", report.Fallback,
		"saved", report.Save.Saved,
		"save_failed", report.Save.Failed,
		"sheet_ok", report.SheetErr == nil,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return 0
}
