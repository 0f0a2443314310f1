// Package dto defines data transfer objects for the Binance API responses.
package dto

// Ticker24hrResponse represents the JSON response from the /ticker/24hr endpoint.
// Numeric fields are transmitted as decimal strings.
type Ticker24hrResponse struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// ErrorResponse is the body Binance returns with 4xx statuses.
type ErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
