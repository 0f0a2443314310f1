package usecase

import (
	"context"
	"errors"
	"log/slog"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

// ErrNoRecords は1サイクルで1件も価格を取得できなかったことを示します。
var ErrNoRecords = errors.New("no price data collected")

// PriceFetcher produces the records of one cycle.
type PriceFetcher interface {
	FetchAll(ctx context.Context) []entity.PriceRecord
}

// RecordSaver persists the records of one cycle.
type RecordSaver interface {
	SaveAll(ctx context.Context, records []entity.PriceRecord) SaveSummary
}

// SheetMirror mirrors the records of one cycle to a spreadsheet.
type SheetMirror interface {
	Mirror(ctx context.Context, records []entity.PriceRecord) error
}

// CycleReport summarises one fetch -> persist -> mirror cycle.
type CycleReport struct {
	Records  []entity.PriceRecord
	Primary  int
	Fallback int
	Save     SaveSummary
	SheetErr error
}

// MonitorUsecase は取得・保存・シート反映の1サイクルを実行します。
type MonitorUsecase struct {
	fetcher PriceFetcher
	saver   RecordSaver
	sheet   SheetMirror
}

// NewMonitorUsecase は新しい MonitorUsecase を作成します。
func NewMonitorUsecase(fetcher PriceFetcher, saver RecordSaver, sheet SheetMirror) *MonitorUsecase {
	return &MonitorUsecase{fetcher: fetcher, saver: saver, sheet: sheet}
}

// RunCycle は1サイクルを実行します。
// 1件も取得できなかった場合は ErrNoRecords を返し、どのシンクも呼び出しません。
// 行ストアとシートの失敗は互いに影響しません。
func (mu *MonitorUsecase) RunCycle(ctx context.Context) (CycleReport, error) {
	var rep CycleReport

	slog.Info("collecting prices")
	rep.Records = mu.fetcher.FetchAll(ctx)
	if len(rep.Records) == 0 {
		slog.Error("no price data collected, stopping")
		return rep, ErrNoRecords
	}

	for _, r := range rep.Records {
		if r.Source == entity.SourceFallback {
			rep.Fallback++
		} else {
			rep.Primary++
		}
		slog.Info("collected",
			"symbol", r.Symbol,
			"price", r.Price.StringFixed(2),
			"change_24h", r.PriceChange24h.StringFixed(2),
			"source", r.Source,
		)
	}
	slog.Info("prices collected", "total", len(rep.Records), "primary", rep.Primary, "fallback", rep.Fallback)

	rep.Save = mu.saver.SaveAll(ctx, rep.Records)

	if err := mu.sheet.Mirror(ctx, rep.Records); err != nil {
		slog.Error("failed to update spreadsheet", "error", err)
		rep.SheetErr = err
	} else {
		slog.Info("spreadsheet updated")
	}
	return rep, nil
}
