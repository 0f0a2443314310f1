// Package coingecko provides a client for the CoinGecko public price API.
package coingecko

import (
	"os"
	"time"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Config holds configuration for the CoinGecko API client.
type Config struct {
	APIKey     string        // Optional demo API key sent as x-cg-demo-api-key
	BaseURL    string        // Base URL for the API (e.g., "https://api.coingecko.com/api/v3")
	VsCurrency string        // Quote currency requested from the API
	Timeout    time.Duration // HTTP request timeout
}

// LoadConfig loads CoinGecko configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:     os.Getenv("COINGECKO_API_KEY"),
		BaseURL:    os.Getenv("COINGECKO_BASE_URL"),
		VsCurrency: "usd",
		Timeout:    15 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}
