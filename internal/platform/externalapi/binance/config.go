// Package binance provides a client for the Binance spot market API.
package binance

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultBaseURL   = "https://api.binance.com/api/v3"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds configuration for the Binance API client.
type Config struct {
	APIKey       string        // Optional API key sent as X-MBX-APIKEY
	BaseURL      string        // Base URL for the API (e.g., "https://api.binance.com/api/v3")
	UserAgent    string        // User-Agent header sent with every request
	Timeout      time.Duration // HTTP request timeout
	RateLimit    int           // Max ticker requests per RateInterval; 0 disables pacing
	RateInterval time.Duration
}

// LoadConfig loads Binance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:       os.Getenv("BINANCE_API_KEY"),
		BaseURL:      os.Getenv("BINANCE_BASE_URL"),
		UserAgent:    DefaultUserAgent,
		Timeout:      10 * time.Second,
		RateLimit:    600,
		RateInterval: time.Minute,
	}
	if v, err := strconv.Atoi(os.Getenv("BINANCE_RATE_LIMIT")); err == nil && v >= 0 {
		cfg.RateLimit = v
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}
