package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"crypto_monitor/internal/app/config"
	"crypto_monitor/internal/app/di"
	"crypto_monitor/internal/app/router"
	pricehandler "crypto_monitor/internal/feature/prices/transport/handler"
	"crypto_monitor/internal/feature/prices/usecase"
	symbollistadapters "crypto_monitor/internal/feature/symbollist/adapters"
	symbollisthandler "crypto_monitor/internal/feature/symbollist/transport/handler"
	symbollistusecase "crypto_monitor/internal/feature/symbollist/usecase"
	infradb "crypto_monitor/internal/platform/db"
	"crypto_monitor/internal/platform/http/handler"
	jwtmw "crypto_monitor/internal/platform/jwt"
	"crypto_monitor/internal/platform/logger"
	infraredis "crypto_monitor/internal/platform/redis"
)

func main() {
	issue := flag.String("issue-token", "", "print a signed API token for the given client name and exit")
	ttl := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(os.Stderr, cfg.Log)

	// APIクライアント用トークンの発行
	if *issue != "" {
		token, err := jwtmw.NewGenerator(cfg.JWTSecret, *ttl).GenerateToken(*issue)
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := cfg.ValidateServer(); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. /prices will answer 500 until it is configured.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to access database handle", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()
	checks := []handler.Check{{Name: "database", Ping: sqlDB.PingContext}}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
			checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	// Repository（Redisキャッシュでラップ）
	store := di.NewPriceStore(db, rdb, cfg)

	symbolRepo := symbollistadapters.NewConfigCatalog(cfg.Symbols, cfg.Mapping)

	// Usecase
	pricesUC := usecase.NewPricesUsecase(store)
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)

	// Handler
	pricesH := pricehandler.NewPriceHandler(pricesUC)
	symbolH := symbollisthandler.NewSymbolHandler(symbolUC)

	// ルータ生成
	r := router.NewRouter(pricesH, symbolH, router.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthChecks:   checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
