// Package db は行ストア（PostgreSQL / Supabase）への接続を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	priceadapters "crypto_monitor/internal/feature/prices/adapters"
)

const retryInterval = 3 * time.Second

// ErrMissingConfig はDB接続に必要な設定が不足していることを示します。
var ErrMissingConfig = errors.New("database configuration is incomplete")

// Config はデータベース接続設定です。
type Config struct {
	URL           string // DATABASE_URL。設定されていれば個別項目より優先
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	RunMigrations bool
}

// Opener opens a gorm connection for a DSN. Replaced in tests.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		URL:           os.Getenv("DATABASE_URL"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		SSLMode:       os.Getenv("DB_SSLMODE"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "require"
	}
	return cfg
}

// Validate は接続に必要な項目が揃っているかを検証します。
func (c Config) Validate() error {
	if c.URL != "" {
		return nil
	}
	var missing []string
	if c.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set DATABASE_URL or %v", ErrMissingConfig, missing)
	}
	return nil
}

// BuildDSN は設定から PostgreSQL の接続文字列を組み立てます。
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "wait", retryInterval)
		time.Sleep(retryInterval)
	}
}

// openPostgres はpgxベースのドライバで接続します。
// Supabase の接続プーラー（transaction mode）ではプリペアドステートメントが使えないため無効化します。
func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// OpenDB は接続を確立し、必要であればマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, openPostgres)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(&priceadapters.PriceModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("migrations applied")
	}
	return db, nil
}
