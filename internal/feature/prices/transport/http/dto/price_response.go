package dto

// PriceResponse は価格レコードのレスポンスDTOです。
// 金額はJSON数値の丸めを避けるため文字列で返します。
type PriceResponse struct {
	Symbol         string `json:"symbol"`           // 取引ペア（例: BTCUSDC）
	Price          string `json:"price"`            // 最終価格
	Volume24h      string `json:"volume_24h"`       // 24時間出来高
	PriceChange24h string `json:"price_change_24h"` // 24時間変化率（%）
	Timestamp      string `json:"timestamp"`        // 取得時刻（RFC3339, UTC）
	Source         string `json:"source"`           // 取得元
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
