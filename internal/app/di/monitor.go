package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crypto_monitor/internal/app/config"
	"crypto_monitor/internal/feature/prices/usecase"
	"crypto_monitor/internal/platform/externalapi/gsheets"
)

// NewMonitor wires fetcher, row store and spreadsheet sinks into a MonitorUsecase.
func NewMonitor(ctx context.Context, cfg config.Config, db *gorm.DB, rdb *redis.Client) (*usecase.MonitorUsecase, error) {
	sheet, err := gsheets.NewGoogleSheet(ctx, cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet client: %w", err)
	}

	return usecase.NewMonitorUsecase(
		NewFetchUsecase(cfg),
		usecase.NewPersistUsecase(NewPriceStore(db, rdb, cfg)),
		usecase.NewSheetUsecase(sheet, cfg.SheetLocation),
	), nil
}
