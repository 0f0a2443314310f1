package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"crypto_monitor/internal/feature/prices/usecase"
	"crypto_monitor/internal/platform/externalapi/coingecko/dto"
)

// CoinGeckoMarket is a SecondaryProvider backed by the /simple/price endpoint.
type CoinGeckoMarket struct {
	cfg    Config
	client *http.Client
}

var _ usecase.SecondaryProvider = (*CoinGeckoMarket)(nil)

// NewCoinGeckoMarket creates a CoinGeckoMarket with the given configuration and HTTP client.
func NewCoinGeckoMarket(cfg Config, client *http.Client) *CoinGeckoMarket {
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = "usd"
	}
	return &CoinGeckoMarket{cfg: cfg, client: client}
}

// SimplePrices fetches price, 24h volume and 24h change for all ids in a single request.
// A 429 response is reported as usecase.ErrRateLimited. Ids without a positive price are omitted.
func (c *CoinGeckoMarket) SimplePrices(ctx context.Context, ids []string) (map[string]usecase.Quote, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", c.cfg.VsCurrency)
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")

	u := fmt.Sprintf("%s/simple/price?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("coingecko http %d: %w", res.StatusCode, usecase.ErrRateLimited)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("coingecko http %d", res.StatusCode)
	}

	var body dto.SimplePriceResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode simple price: %w", err)
	}

	cur := c.cfg.VsCurrency
	out := make(map[string]usecase.Quote, len(body))
	for id, fields := range body {
		price := fields[cur]
		if price == nil || !price.IsPositive() {
			slog.Warn("coingecko returned no price", "id", id)
			continue
		}
		out[id] = usecase.Quote{
			Price:     *price,
			Volume24h: valueOrZero(fields[cur+"_24h_vol"]),
			Change24h: valueOrZero(fields[cur+"_24h_change"]),
		}
	}
	return out, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
