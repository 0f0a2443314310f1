// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol is one instrument the monitor collects every cycle.
type Symbol struct {
	Code       string // Exchange pair code (e.g., "BTCUSDC")
	Name       string // Display name written to the spreadsheet (e.g., "BTC")
	FallbackID string // Secondary provider id; empty when the symbol has no fallback
	SortKey    int    // Position in the configured symbol list
}

// HasFallback reports whether the symbol can be served by the secondary provider.
func (s Symbol) HasFallback() bool {
	return s.FallbackID != ""
}
