package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"crypto_monitor/internal/feature/prices/usecase"
	"crypto_monitor/internal/platform/externalapi/binance/dto"
)

// BinanceMarket はBinanceの24時間ティッカーAPIから価格を取得するPrimaryProvider実装です。
type BinanceMarket struct {
	cfg    Config
	client *http.Client
}

// BinanceMarketがPrimaryProviderを実装していることをコンパイル時に検証します。
var _ usecase.PrimaryProvider = (*BinanceMarket)(nil)

// NewBinanceMarket は指定された設定とHTTPクライアントでBinanceMarketの新しいインスタンスを生成します。
func NewBinanceMarket(cfg Config, client *http.Client) *BinanceMarket {
	return &BinanceMarket{cfg: cfg, client: client}
}

// Ticker は1シンボル分の24時間ティッカーを取得します。
// HTTP 451 は地域制限として GeoBlocked を、それ以外の失敗は Failed を返します。
func (b *BinanceMarket) Ticker(ctx context.Context, symbol string) usecase.TickerResult {
	q := url.Values{}
	q.Set("symbol", symbol)

	u := fmt.Sprintf("%s/ticker/24hr?%s", b.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return usecase.Failed(err)
	}
	req.Header.Set("Accept", "application/json")
	if b.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", b.cfg.UserAgent)
	}
	if b.cfg.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", b.cfg.APIKey)
	}

	res, err := b.client.Do(req)
	if err != nil {
		return usecase.Failed(err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusUnavailableForLegalReasons {
		return usecase.GeoBlocked()
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return usecase.Failed(statusError(res))
	}

	var body dto.Ticker24hrResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return usecase.Failed(fmt.Errorf("decode ticker: %w", err))
	}

	t, err := parseTicker(body)
	if err != nil {
		return usecase.Failed(err)
	}
	return usecase.OK(t)
}

func parseTicker(body dto.Ticker24hrResponse) (usecase.Ticker, error) {
	// 直近の約定価格をパース
	last, err := decimal.NewFromString(body.LastPrice)
	if err != nil {
		return usecase.Ticker{}, fmt.Errorf("parse lastPrice %q: %w", body.LastPrice, err)
	}
	// 24時間出来高をパース
	vol, err := decimal.NewFromString(body.Volume)
	if err != nil {
		return usecase.Ticker{}, fmt.Errorf("parse volume %q: %w", body.Volume, err)
	}
	// 24時間変化率をパース
	chg, err := decimal.NewFromString(body.PriceChangePercent)
	if err != nil {
		return usecase.Ticker{}, fmt.Errorf("parse priceChangePercent %q: %w", body.PriceChangePercent, err)
	}
	return usecase.Ticker{
		Symbol:             body.Symbol,
		LastPrice:          last,
		Volume:             vol,
		PriceChangePercent: chg,
	}, nil
}

// statusError builds an error from a non-2xx response, including Binance's error message when present.
func statusError(res *http.Response) error {
	var e dto.ErrorResponse
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	if json.Unmarshal(b, &e) == nil && e.Msg != "" {
		return fmt.Errorf("binance http %d: %s (code %d)", res.StatusCode, e.Msg, e.Code)
	}
	return fmt.Errorf("binance http %d", res.StatusCode)
}
