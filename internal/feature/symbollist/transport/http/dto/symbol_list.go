// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a monitored symbol in the API response.
type SymbolItem struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	FallbackID string `json:"fallback_id,omitempty"`
}
