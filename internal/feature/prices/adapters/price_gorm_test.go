package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&PriceModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newRecord(symbol, price string, ts time.Time, src entity.Source) entity.PriceRecord {
	return entity.PriceRecord{
		Symbol:         symbol,
		Price:          decimal.RequireFromString(price),
		Volume24h:      decimal.RequireFromString("1500.25"),
		PriceChange24h: decimal.RequireFromString("-2.5"),
		Timestamp:      ts,
		Source:         src,
	}
}

func TestNewPriceRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewPriceRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestPriceGorm_Insert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ts := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	err := repo.Insert(context.Background(), newRecord("BTCUSDC", "97000.5", ts, entity.SourcePrimary))
	require.NoError(t, err)

	var rows []PriceModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "BTCUSDC", rows[0].Symbol)
	assert.Equal(t, "binance", rows[0].Source)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("97000.5")), "price mismatch: %s", rows[0].Price)
	assert.True(t, rows[0].Volume24h.Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, rows[0].PriceChange24h.Equal(decimal.RequireFromString("-2.5")))
	assert.True(t, rows[0].Timestamp.Equal(ts))
	assert.False(t, rows[0].CreatedAt.IsZero())
}

func TestPriceGorm_Insert_ClosedDB(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = repo.Insert(context.Background(), newRecord("BTCUSDC", "1", time.Now(), entity.SourcePrimary))
	assert.Error(t, err)
}

func TestPriceGorm_Latest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, newRecord("ETHUSDC", "3000", base, entity.SourcePrimary)))
	require.NoError(t, repo.Insert(ctx, newRecord("BTCUSDC", "96000", base, entity.SourcePrimary)))
	require.NoError(t, repo.Insert(ctx, newRecord("ETHUSDC", "3100", base.Add(time.Hour), entity.SourceFallback)))
	require.NoError(t, repo.Insert(ctx, newRecord("BTCUSDC", "97000", base.Add(time.Hour), entity.SourcePrimary)))

	out, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "BTCUSDC", out[0].Symbol)
	assert.True(t, out[0].Price.Equal(decimal.NewFromInt(97000)))
	assert.Equal(t, "ETHUSDC", out[1].Symbol)
	assert.True(t, out[1].Price.Equal(decimal.NewFromInt(3100)))
	assert.Equal(t, entity.SourceFallback, out[1].Source)
}

func TestPriceGorm_Latest_Empty(t *testing.T) {
	repo := NewPriceRepository(setupTestDB(t))

	out, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPriceGorm_History(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	prices := []string{"100", "101", "102", "103"}
	for i, p := range prices {
		require.NoError(t, repo.Insert(ctx, newRecord("SOLUSDC", p, base.Add(time.Duration(i)*time.Hour), entity.SourcePrimary)))
	}
	require.NoError(t, repo.Insert(ctx, newRecord("ADAUSDC", "1", base, entity.SourcePrimary)))

	tests := []struct {
		name       string
		symbol     string
		limit      int
		wantPrices []string
	}{
		{"newest first with limit", "SOLUSDC", 2, []string{"103", "102"}},
		{"no limit returns all", "SOLUSDC", 0, []string{"103", "102", "101", "100"}},
		{"unknown symbol", "XRPUSDC", 10, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := repo.History(ctx, tt.symbol, tt.limit)
			require.NoError(t, err)
			require.Len(t, out, len(tt.wantPrices))
			for i, want := range tt.wantPrices {
				assert.True(t, out[i].Price.Equal(decimal.RequireFromString(want)),
					"index %d: want %s, got %s", i, want, out[i].Price)
				assert.Equal(t, tt.symbol, out[i].Symbol)
			}
		})
	}
}
