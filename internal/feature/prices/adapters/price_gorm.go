package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/feature/prices/usecase"
)

type priceGorm struct {
	db *gorm.DB
}

var (
	_ usecase.PriceRepository = (*priceGorm)(nil)
	_ usecase.PriceReader     = (*priceGorm)(nil)
)

// NewPriceRepository は gorm を使った価格リポジトリを生成します。
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PriceModel は crypto_prices テーブルの1行です。
type PriceModel struct {
	ID             uint            `gorm:"primaryKey"`
	Symbol         string          `gorm:"size:32;not null;index:idx_crypto_prices_symbol"`
	Price          decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Volume24h      decimal.Decimal `gorm:"column:volume_24h;type:numeric(30,10);not null"`
	PriceChange24h decimal.Decimal `gorm:"column:price_change_24h;type:numeric(20,8);not null"`
	Timestamp      time.Time       `gorm:"column:timestamp;not null"`
	Source         string          `gorm:"size:16;not null"`
	CreatedAt      time.Time
}

// TableName は gorm が使用するテーブル名を返します。
func (PriceModel) TableName() string {
	return "crypto_prices"
}

func toModel(e entity.PriceRecord) PriceModel {
	return PriceModel{
		Symbol:         e.Symbol,
		Price:          e.Price,
		Volume24h:      e.Volume24h,
		PriceChange24h: e.PriceChange24h,
		Timestamp:      e.Timestamp.UTC(),
		Source:         string(e.Source),
	}
}

func toEntity(m PriceModel) entity.PriceRecord {
	return entity.PriceRecord{
		Symbol:         m.Symbol,
		Price:          m.Price,
		Volume24h:      m.Volume24h,
		PriceChange24h: m.PriceChange24h,
		Timestamp:      m.Timestamp,
		Source:         entity.Source(m.Source),
	}
}

func (r *priceGorm) Insert(ctx context.Context, record entity.PriceRecord) error {
	m := toModel(record)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Latest returns the most recently inserted row of every symbol, ordered by symbol.
func (r *priceGorm) Latest(ctx context.Context) ([]entity.PriceRecord, error) {
	latestIDs := r.db.Model(&PriceModel{}).Select("MAX(id)").Group("symbol")

	var rows []PriceModel
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", latestIDs).
		Order("symbol ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *priceGorm) History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
	var rows []PriceModel
	q := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func toEntities(rows []PriceModel) []entity.PriceRecord {
	out := make([]entity.PriceRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}
