package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

// Ticker is the primary provider's 24h ticker, already parsed into decimals.
type Ticker struct {
	Symbol             string
	LastPrice          decimal.Decimal
	Volume             decimal.Decimal
	PriceChangePercent decimal.Decimal
}

// Quote is one entry of the secondary provider's batched price response.
type Quote struct {
	Price     decimal.Decimal
	Volume24h decimal.Decimal
	Change24h decimal.Decimal
}

// fromTicker はプライマリAPIのティッカーを PriceRecord に変換します。
// タイムスタンプはプロバイダの時刻ではなく取得時刻を使用します。
func fromTicker(symbol string, t Ticker, ts time.Time) (entity.PriceRecord, error) {
	if t.Symbol != "" && t.Symbol != symbol {
		return entity.PriceRecord{}, fmt.Errorf("ticker symbol mismatch: requested %s, got %s", symbol, t.Symbol)
	}
	return entity.NewPriceRecord(symbol, t.LastPrice, t.Volume, t.PriceChangePercent, ts, entity.SourcePrimary)
}

// fromQuote はセカンダリAPIの価格を PriceRecord に変換します。
func fromQuote(symbol string, q Quote, ts time.Time) (entity.PriceRecord, error) {
	return entity.NewPriceRecord(symbol, q.Price, q.Volume24h, q.Change24h, ts, entity.SourceFallback)
}
