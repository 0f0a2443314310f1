// Package gsheets mirrors price rows to a Google Sheets spreadsheet.
package gsheets

import (
	"os"
	"time"
)

// Config holds configuration for the Google Sheets client.
type Config struct {
	SpreadsheetID   string        // Target spreadsheet key
	SheetTitle      string        // Worksheet title; empty means the first worksheet
	CredentialsJSON []byte        // Service account key JSON
	Timeout         time.Duration // HTTP request timeout
}

// LoadConfig loads Google Sheets configuration from environment variables.
func LoadConfig() Config {
	return Config{
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		SheetTitle:      os.Getenv("SHEET_TITLE"),
		CredentialsJSON: []byte(os.Getenv("GOOGLE_CREDENTIALS_JSON")),
		Timeout:         30 * time.Second,
	}
}
