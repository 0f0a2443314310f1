// Package usecase は価格取得・永続化・スプレッドシート反映のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/shared/ratelimiter"
	"crypto_monitor/internal/shared/retry"
)

const (
	// FallbackMaxAttempts はセカンダリAPIへの一括リクエストの最大試行回数です。
	FallbackMaxAttempts = 3
	// FallbackBaseDelay はレートリミット時の初回待機時間です（以降 2 倍ずつ増加）。
	FallbackBaseDelay = 2 * time.Second
)

// ErrRateLimited はセカンダリAPIがレートリミット応答（HTTP 429）を返したことを示します。
var ErrRateLimited = errors.New("rate limited")

// TickerStatus はプライマリAPI呼び出しの結果種別です。
type TickerStatus int

const (
	TickerOK TickerStatus = iota
	TickerGeoBlocked
	TickerFailed
)

func (s TickerStatus) String() string {
	switch s {
	case TickerOK:
		return "ok"
	case TickerGeoBlocked:
		return "geo_blocked"
	default:
		return "failed"
	}
}

// TickerResult is the tagged outcome of one primary-provider request.
type TickerResult struct {
	Status TickerStatus
	Ticker Ticker // valid only when Status == TickerOK
	Err    error  // set when Status == TickerFailed
}

// OK wraps a successfully parsed ticker.
func OK(t Ticker) TickerResult { return TickerResult{Status: TickerOK, Ticker: t} }

// GeoBlocked reports that the provider refused the request origin's region.
func GeoBlocked() TickerResult { return TickerResult{Status: TickerGeoBlocked} }

// Failed reports any other request failure.
func Failed(err error) TickerResult { return TickerResult{Status: TickerFailed, Err: err} }

// PrimaryProvider はシンボル単位で24時間ティッカーを取得する取引所APIです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PrimaryProvider interface {
	Ticker(ctx context.Context, symbol string) TickerResult
}

// SecondaryProvider は複数IDの価格を1リクエストで取得する公開APIです。
// レートリミット時は ErrRateLimited をラップしたエラーを返します。
type SecondaryProvider interface {
	SimplePrices(ctx context.Context, ids []string) (map[string]Quote, error)
}

// FetchSettings holds the static inputs of a fetch cycle.
type FetchSettings struct {
	Symbols []string             // 取得対象シンボル（順序を保持）
	Mapping entity.SymbolMapping // プライマリシンボル -> セカンダリID
	Retry   retry.Policy         // ゼロ値の場合はデフォルト（3回, 2s起点）
}

// FetchUsecase はプライマリAPIを優先し、失敗したシンボルのみセカンダリAPIから一括取得します。
type FetchUsecase struct {
	primary     PrimaryProvider
	secondary   SecondaryProvider
	rateLimiter ratelimiter.RateLimiterInterface
	symbols     []string
	mapping     entity.SymbolMapping
	retry       retry.Policy
	now         func() time.Time
}

// NewFetchUsecase は新しい FetchUsecase を作成します。
func NewFetchUsecase(primary PrimaryProvider, secondary SecondaryProvider, rateLimiter ratelimiter.RateLimiterInterface, s FetchSettings) *FetchUsecase {
	p := s.Retry
	if p.MaxAttempts == 0 {
		p.MaxAttempts = FallbackMaxAttempts
	}
	if p.BaseDelay == 0 {
		p.BaseDelay = FallbackBaseDelay
	}
	p.Retryable = func(err error) bool { return errors.Is(err, ErrRateLimited) }

	symbols := uniqueInOrder(s.Symbols)

	return &FetchUsecase{
		primary:     primary,
		secondary:   secondary,
		rateLimiter: rateLimiter,
		symbols:     symbols,
		mapping:     s.Mapping,
		retry:       p,
		now:         time.Now,
	}
}

// FetchAll は設定された全シンボルの価格を取得します。
// 個々のシンボルの失敗はログに出力して処理を継続し、取得できたレコードのみを返します。
func (fu *FetchUsecase) FetchAll(ctx context.Context) []entity.PriceRecord {
	records := make([]entity.PriceRecord, 0, len(fu.symbols))
	var failed []string

	for _, s := range fu.symbols {
		fu.rateLimiter.WaitIfNeeded()

		res := fu.primary.Ticker(ctx, s)
		switch res.Status {
		case TickerOK:
			r, err := fromTicker(s, res.Ticker, fu.now())
			if err != nil {
				slog.Warn("malformed primary ticker", "symbol", s, "error", err)
				failed = append(failed, s)
				continue
			}
			records = append(records, r)
		case TickerGeoBlocked:
			slog.Warn("primary provider geo-blocked", "symbol", s)
			failed = append(failed, s)
		default:
			slog.Warn("primary provider request failed", "symbol", s, "error", res.Err)
			failed = append(failed, s)
		}
	}

	if len(failed) == 0 {
		return records
	}
	return append(records, fu.fetchFallback(ctx, failed)...)
}

// fetchFallback issues exactly one batched secondary request (plus rate-limit retries) for symbols.
func (fu *FetchUsecase) fetchFallback(ctx context.Context, symbols []string) []entity.PriceRecord {
	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		id, ok := fu.mapping.SecondaryID(s)
		if !ok {
			slog.Warn("no fallback mapping for symbol", "symbol", s)
			continue
		}
		ids = append(ids, id)
	}
	ids = uniqueInOrder(ids)
	if len(ids) == 0 {
		return nil
	}

	var quotes map[string]Quote
	err := retry.Do(ctx, fu.retry, func(ctx context.Context) error {
		q, err := fu.secondary.SimplePrices(ctx, ids)
		if err != nil {
			return err
		}
		quotes = q
		return nil
	})
	if err != nil {
		slog.Error("fallback provider request failed", "ids", ids, "error", err)
		return nil
	}

	ts := fu.now()
	out := make([]entity.PriceRecord, 0, len(ids))
	for _, id := range ids {
		q, ok := quotes[id]
		if !ok {
			continue
		}
		sym, _ := fu.mapping.PrimarySymbol(id)
		r, err := fromQuote(sym, q, ts)
		if err != nil {
			slog.Warn("malformed fallback quote", "symbol", sym, "id", id, "error", err)
			continue
		}
		out = append(out, r)
	}
	slog.Info("fallback fetch finished", "requested", len(ids), "received", len(out))
	return out
}

// uniqueInOrder returns a copy of in without repeated values, keeping the first occurrence.
func uniqueInOrder(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
