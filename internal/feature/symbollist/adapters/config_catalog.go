// Package adapters provides SymbolRepository implementations.
package adapters

import (
	"context"

	priceentity "crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/feature/symbollist/domain/entity"
	"crypto_monitor/internal/feature/symbollist/usecase"
)

// configCatalog serves the symbols configured for the monitor.
type configCatalog struct {
	symbols []entity.Symbol
}

// configCatalogがSymbolRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SymbolRepository = (*configCatalog)(nil)

// NewConfigCatalog は設定済みシンボルとマッピングからカタログを生成します。順序は symbols のまま保持されます。
func NewConfigCatalog(symbols []string, mapping priceentity.SymbolMapping) *configCatalog {
	out := make([]entity.Symbol, 0, len(symbols))
	for i, code := range symbols {
		id, _ := mapping.SecondaryID(code)
		out = append(out, entity.Symbol{
			Code:       code,
			Name:       priceentity.DisplayName(code),
			FallbackID: id,
			SortKey:    i + 1,
		})
	}
	return &configCatalog{symbols: out}
}

// ListActive returns a copy of the configured symbols.
func (c *configCatalog) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	out := make([]entity.Symbol, len(c.symbols))
	copy(out, c.symbols)
	return out, nil
}
