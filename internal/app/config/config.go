// Package config はアプリケーション全体の設定を環境変数から組み立てます。
// 各アダプターの LoadConfig を集約し、起動時に一度だけ検証します。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/platform/db"
	"crypto_monitor/internal/platform/externalapi/binance"
	"crypto_monitor/internal/platform/externalapi/coingecko"
	"crypto_monitor/internal/platform/externalapi/gsheets"
	jwtmw "crypto_monitor/internal/platform/jwt"
	"crypto_monitor/internal/platform/logger"
	"crypto_monitor/internal/platform/redis"
)

// ErrInvalidConfig is returned when the environment cannot produce a usable configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	defaultPort          = "8080"
	defaultCycleInterval = 5 * time.Minute
)

// Config is the explicit configuration value handed to every constructor.
type Config struct {
	DB        db.Config
	Redis     redis.Config
	Binance   binance.Config
	CoinGecko coingecko.Config
	Sheets    gsheets.Config
	Log       logger.Config

	Symbols       []string
	Mapping       entity.SymbolMapping
	SheetLocation *time.Location
	CycleInterval time.Duration // 監視サイクルの実行間隔（キャッシュTTLの算出に使用）

	Port           string
	JWTSecret      string
	AllowedOrigins []string
}

// Load は環境変数から Config を構築します。値の形式エラーのみをここで返し、
// 必須項目の有無は用途ごとの Validate で検証します。
func Load() (Config, error) {
	cfg := Config{
		DB:            db.LoadConfigFromEnv(),
		Redis:         redis.LoadConfig(),
		Binance:       binance.LoadConfig(),
		CoinGecko:     coingecko.LoadConfig(),
		Sheets:        gsheets.LoadConfig(),
		Log:           logger.Config{Format: os.Getenv("LOG_FORMAT"), Level: os.Getenv("LOG_LEVEL")},
		Symbols:       entity.DefaultSymbols,
		Mapping:       entity.DefaultSymbolMapping(),
		SheetLocation: time.Local,
		CycleInterval: defaultCycleInterval,
		Port:          os.Getenv("PORT"),
		JWTSecret:     jwtmw.LoadSecret(),
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if s := os.Getenv("SYMBOLS"); s != "" {
		cfg.Symbols = splitList(s, strings.ToUpper)
	}
	if s := os.Getenv("SYMBOL_MAP"); s != "" {
		m, err := entity.ParseSymbolMapping(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: SYMBOL_MAP: %w", ErrInvalidConfig, err)
		}
		cfg.Mapping = m
	}
	if s := os.Getenv("SHEET_TIMEZONE"); s != "" {
		loc, err := time.LoadLocation(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: SHEET_TIMEZONE %q: %w", ErrInvalidConfig, s, err)
		}
		cfg.SheetLocation = loc
	}
	if s := os.Getenv("MONITOR_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: MONITOR_INTERVAL %q must be a positive duration", ErrInvalidConfig, s)
		}
		cfg.CycleInterval = d
	}
	if s := os.Getenv("CORS_ALLOWED_ORIGINS"); s != "" {
		cfg.AllowedOrigins = splitList(s, strings.TrimSpace)
	}
	return cfg, nil
}

// ValidateMonitor は監視ジョブの起動に必要な設定を検証します。
// ネットワークに触れる前に呼び出し、エラーなら起動を中止します。
func (c Config) ValidateMonitor() error {
	var errs []error
	if len(c.Symbols) == 0 {
		errs = append(errs, errors.New("SYMBOLS is empty"))
	}
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("SPREADSHEET_ID is not set"))
	}
	if err := gsheets.ValidateCredentials(c.Sheets.CredentialsJSON); err != nil {
		errs = append(errs, fmt.Errorf("GOOGLE_CREDENTIALS_JSON: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateServer は参照APIの起動に必要な設定を検証します。
func (c Config) ValidateServer() error {
	if err := c.DB.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// UnmappedSymbols returns configured symbols that have no fallback id.
func (c Config) UnmappedSymbols() []string {
	var out []string
	for _, s := range c.Symbols {
		if _, ok := c.Mapping.SecondaryID(s); !ok {
			out = append(out, s)
		}
	}
	return out
}

// splitList splits a comma separated value, normalizes each entry and drops
// empty and repeated entries while keeping the first occurrence order.
func splitList(s string, norm func(string) string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = norm(part)
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
