// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

import "github.com/shopspring/decimal"

// SimplePriceResponse represents the JSON response from the /simple/price endpoint,
// keyed by coin id. Each value is keyed by field name ("usd", "usd_24h_vol", "usd_24h_change").
type SimplePriceResponse map[string]map[string]*decimal.Decimal
