// Package di provides dependency injection factories for creating application components.
package di

import (
	"crypto_monitor/internal/app/config"
	"crypto_monitor/internal/feature/prices/usecase"
	"crypto_monitor/internal/platform/externalapi/binance"
	"crypto_monitor/internal/platform/externalapi/coingecko"
	infrahttp "crypto_monitor/internal/platform/http"
	"crypto_monitor/internal/shared/ratelimiter"
)

// NewPrimaryMarket creates a fully configured BinanceMarket with HTTP client.
func NewPrimaryMarket(cfg binance.Config) *binance.BinanceMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return binance.NewBinanceMarket(cfg, httpClient)
}

// NewSecondaryMarket creates a fully configured CoinGeckoMarket with HTTP client.
func NewSecondaryMarket(cfg coingecko.Config) *coingecko.CoinGeckoMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return coingecko.NewCoinGeckoMarket(cfg, httpClient)
}

// NewFetchUsecase wires both providers and the primary rate limiter into a FetchUsecase.
func NewFetchUsecase(cfg config.Config) *usecase.FetchUsecase {
	return usecase.NewFetchUsecase(
		NewPrimaryMarket(cfg.Binance),
		NewSecondaryMarket(cfg.CoinGecko),
		ratelimiter.NewRateLimiter(cfg.Binance.RateLimit, cfg.Binance.RateInterval),
		usecase.FetchSettings{
			Symbols: cfg.Symbols,
			Mapping: cfg.Mapping,
		},
	)
}
