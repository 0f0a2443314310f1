// Package entity defines the domain models for the prices feature.
package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which provider actually supplied a PriceRecord.
type Source string

const (
	// SourcePrimary is the exchange API that is tried first for every symbol.
	SourcePrimary Source = "binance"
	// SourceFallback is the public API used only for symbols the primary could not serve.
	SourceFallback Source = "coingecko"
)

var (
	ErrEmptySymbol      = errors.New("symbol is empty")
	ErrNonPositivePrice = errors.New("price must be positive")
	ErrNegativeVolume   = errors.New("volume must not be negative")
	ErrUnknownSource    = errors.New("unknown source")
)

// PriceRecord is one observation of one instrument at one point in time.
// Values are never mutated after NewPriceRecord returns.
type PriceRecord struct {
	Symbol         string          // Exchange pair code (e.g., "BTCUSDC")
	Price          decimal.Decimal // Last traded price
	Volume24h      decimal.Decimal // Trailing 24h traded volume
	PriceChange24h decimal.Decimal // Trailing 24h change in percent
	Timestamp      time.Time       // Observation time assigned at fetch time
	Source         Source          // Provider that supplied the values
}

// NewPriceRecord builds a validated PriceRecord.
func NewPriceRecord(symbol string, price, volume, change decimal.Decimal, ts time.Time, src Source) (PriceRecord, error) {
	r := PriceRecord{
		Symbol:         symbol,
		Price:          price,
		Volume24h:      volume,
		PriceChange24h: change,
		Timestamp:      ts,
		Source:         src,
	}
	if err := r.Validate(); err != nil {
		return PriceRecord{}, err
	}
	return r, nil
}

// Validate checks the record invariants.
func (r PriceRecord) Validate() error {
	if r.Symbol == "" {
		return ErrEmptySymbol
	}
	if !r.Price.IsPositive() {
		return fmt.Errorf("%s: %w", r.Symbol, ErrNonPositivePrice)
	}
	if r.Volume24h.IsNegative() {
		return fmt.Errorf("%s: %w", r.Symbol, ErrNegativeVolume)
	}
	if r.Source != SourcePrimary && r.Source != SourceFallback {
		return fmt.Errorf("%s: %w %q", r.Symbol, ErrUnknownSource, r.Source)
	}
	return nil
}
