package usecase

import (
	"context"
	"log/slog"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

// PriceRepository は価格レコードの追記先を抽象化します。
type PriceRepository interface {
	Insert(ctx context.Context, record entity.PriceRecord) error
}

// SaveSummary counts per-record insert outcomes.
type SaveSummary struct {
	Saved  int
	Failed int
}

// PersistUsecase は取得したレコードを1件ずつ行ストアに保存します。
type PersistUsecase struct {
	repo PriceRepository
}

// NewPersistUsecase は新しい PersistUsecase を作成します。
func NewPersistUsecase(repo PriceRepository) *PersistUsecase {
	return &PersistUsecase{repo: repo}
}

// SaveAll はレコードごとに Insert を呼び出し、成功・失敗件数を返します。
// 1件の失敗でバッチ全体を中断することはありません。
func (pu *PersistUsecase) SaveAll(ctx context.Context, records []entity.PriceRecord) SaveSummary {
	var sum SaveSummary
	if len(records) == 0 {
		slog.Warn("nothing to save")
		return sum
	}

	for _, r := range records {
		if err := pu.repo.Insert(ctx, r); err != nil {
			slog.Error("failed to save price", "symbol", r.Symbol, "source", r.Source, "error", err)
			sum.Failed++
			continue
		}
		slog.Info("price saved", "symbol", r.Symbol, "price", r.Price.StringFixed(2))
		sum.Saved++
	}
	slog.Info("row store write finished", "saved", sum.Saved, "total", len(records))
	return sum
}
