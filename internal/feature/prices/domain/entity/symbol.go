package entity

import (
	"fmt"
	"strings"
)

// quoteCurrencies are stripped from pair codes when a short display name is needed.
var quoteCurrencies = []string{"USDC", "USDT", "BUSD", "USD"}

// DefaultSymbols は監視対象のデフォルト銘柄リストです。
var DefaultSymbols = []string{"BTCUSDC", "ETHUSDC", "BNBUSDC", "ADAUSDC", "SOLUSDC"}

// SymbolMapping はプライマリ側のシンボルとセカンダリ側のIDの対応表です。
// フェッチ処理を変更せずに銘柄を追加できるよう、外部から注入します。
type SymbolMapping struct {
	toSecondary map[string]string
	toPrimary   map[string]string
}

// NewSymbolMapping は pairs (primary -> secondary) から SymbolMapping を生成します。
// 同じセカンダリIDが複数のシンボルに割り当てられている場合はエラーを返します。
func NewSymbolMapping(pairs map[string]string) (SymbolMapping, error) {
	m := SymbolMapping{
		toSecondary: make(map[string]string, len(pairs)),
		toPrimary:   make(map[string]string, len(pairs)),
	}
	for sym, id := range pairs {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		id = strings.ToLower(strings.TrimSpace(id))
		if sym == "" || id == "" {
			return SymbolMapping{}, fmt.Errorf("symbol mapping: empty entry %q=%q", sym, id)
		}
		if prev, ok := m.toPrimary[id]; ok && prev != sym {
			return SymbolMapping{}, fmt.Errorf("symbol mapping: id %q mapped from both %s and %s", id, prev, sym)
		}
		m.toSecondary[sym] = id
		m.toPrimary[id] = sym
	}
	return m, nil
}

// DefaultSymbolMapping returns the mapping for DefaultSymbols.
func DefaultSymbolMapping() SymbolMapping {
	m, _ := NewSymbolMapping(map[string]string{
		"BTCUSDC": "bitcoin",
		"ETHUSDC": "ethereum",
		"BNBUSDC": "binancecoin",
		"ADAUSDC": "cardano",
		"SOLUSDC": "solana",
	})
	return m
}

// ParseSymbolMapping parses "BTCUSDC:bitcoin,ETHUSDC:ethereum".
func ParseSymbolMapping(s string) (SymbolMapping, error) {
	pairs := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sym, id, ok := strings.Cut(part, ":")
		if !ok {
			return SymbolMapping{}, fmt.Errorf("symbol mapping: malformed entry %q", part)
		}
		pairs[sym] = id
	}
	return NewSymbolMapping(pairs)
}

// SecondaryID はシンボルに対応するセカンダリIDを返します。
func (m SymbolMapping) SecondaryID(symbol string) (string, bool) {
	id, ok := m.toSecondary[symbol]
	return id, ok
}

// PrimarySymbol はセカンダリIDに対応するシンボルを返します。
func (m SymbolMapping) PrimarySymbol(id string) (string, bool) {
	sym, ok := m.toPrimary[id]
	return sym, ok
}

// Len returns the number of mapped symbols.
func (m SymbolMapping) Len() int {
	return len(m.toSecondary)
}

// DisplayName はペアコードから決済通貨を取り除いた表示名を返します（例: "BTCUSDC" -> "BTC"）。
func DisplayName(symbol string) string {
	for _, q := range quoteCurrencies {
		if base, ok := strings.CutSuffix(symbol, q); ok && base != "" {
			return base
		}
	}
	return symbol
}
