// Package usecase は監視対象シンボル一覧のユースケースを提供します。
package usecase

import (
	"context"
	"fmt"
	"sort"

	"crypto_monitor/internal/feature/symbollist/domain/entity"
)

// SymbolRepository は監視対象シンボルの取得元です（設定から組み立てたカタログなど）。
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolUsecase は監視対象シンボルを設定順で返します。
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase は新しい SymbolUsecase を作成します。
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols は監視対象シンボルを SortKey 順に返します。
// 対象が無い場合も nil ではなく空のスライスを返します。
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list monitored symbols: %w", err)
	}
	if symbols == nil {
		return []entity.Symbol{}, nil
	}
	sort.SliceStable(symbols, func(i, j int) bool { return symbols[i].SortKey < symbols[j].SortKey })
	return symbols, nil
}
