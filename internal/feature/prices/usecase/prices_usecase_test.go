package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto_monitor/internal/feature/prices/domain/entity"
)

// mockPriceReader is a mock implementation of the PriceReader interface.
type mockPriceReader struct {
	LatestFunc  func(ctx context.Context) ([]entity.PriceRecord, error)
	HistoryFunc func(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error)
}

func (m *mockPriceReader) Latest(ctx context.Context) ([]entity.PriceRecord, error) {
	return m.LatestFunc(ctx)
}

func (m *mockPriceReader) History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
	return m.HistoryFunc(ctx, symbol, limit)
}

func TestPricesUsecase_History(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	rec := mustRecord(t, "BTCUSDC", "97000", "10", "1", ts, entity.SourcePrimary)

	testCases := []struct {
		name          string
		inputLimit    int
		expectedLimit int
		mockErr       error
	}{
		{"limit passed through", 10, 10, nil},
		{"zero limit uses default", 0, DefaultHistoryLimit, nil},
		{"negative limit uses default", -5, DefaultHistoryLimit, nil},
		{"limit above max uses default", MaxHistoryLimit + 1, DefaultHistoryLimit, nil},
		{"max limit allowed", MaxHistoryLimit, MaxHistoryLimit, nil},
		{"reader error propagates", 10, 10, ErrDB},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := &mockPriceReader{
				HistoryFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
					if symbol != "BTCUSDC" {
						t.Errorf("unexpected symbol: %s", symbol)
					}
					if limit != tc.expectedLimit {
						t.Errorf("limit mismatch: got %d, want %d", limit, tc.expectedLimit)
					}
					if tc.mockErr != nil {
						return nil, tc.mockErr
					}
					return []entity.PriceRecord{rec}, nil
				},
			}
			uc := NewPricesUsecase(reader)

			out, err := uc.History(ctx, "BTCUSDC", tc.inputLimit)

			if tc.mockErr != nil {
				if !errors.Is(err, tc.mockErr) {
					t.Fatalf("expected %v, got %v", tc.mockErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != 1 {
				t.Errorf("expected 1 record, got %d", len(out))
			}
		})
	}
}

func TestPricesUsecase_Latest(t *testing.T) {
	ts := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	want := []entity.PriceRecord{mustRecord(t, "ETHUSDC", "3100", "10", "1", ts, entity.SourceFallback)}
	uc := NewPricesUsecase(&mockPriceReader{
		LatestFunc: func(ctx context.Context) ([]entity.PriceRecord, error) { return want, nil },
	})

	got, err := uc.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "ETHUSDC" {
		t.Errorf("unexpected records: %+v", got)
	}
}
