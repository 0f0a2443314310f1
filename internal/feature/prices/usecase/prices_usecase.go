package usecase

import (
	"context"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

const (
	// DefaultHistoryLimit は履歴取得のデフォルト件数です。
	DefaultHistoryLimit = 100
	// MaxHistoryLimit は履歴取得の最大件数です。
	MaxHistoryLimit = 1000
)

// PriceReader は保存済み価格の読み取りレイヤーを抽象化します。
type PriceReader interface {
	// Latest はシンボルごとの最新レコードを返します。
	Latest(ctx context.Context) ([]entity.PriceRecord, error)
	// History は指定シンボルのレコードを新しい順に返します。
	History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error)
}

// pricesUsecase serves persisted prices to the HTTP API.
type pricesUsecase struct {
	reader PriceReader
}

// NewPricesUsecase は pricesUsecase の新しいインスタンスを生成します。
func NewPricesUsecase(reader PriceReader) *pricesUsecase {
	return &pricesUsecase{reader: reader}
}

// Latest returns the latest record per symbol.
func (pu *pricesUsecase) Latest(ctx context.Context) ([]entity.PriceRecord, error) {
	return pu.reader.Latest(ctx)
}

// History は指定シンボルの履歴を返します。limit が範囲外の場合はデフォルト値を使用します。
func (pu *pricesUsecase) History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return pu.reader.History(ctx, symbol, limit)
}
