// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_monitor/internal/feature/prices/domain/entity"
	"crypto_monitor/internal/feature/prices/usecase"
)

// PriceStore is the row store as seen by both the monitor and the API.
type PriceStore interface {
	usecase.PriceRepository
	usecase.PriceReader
}

// CachingPriceRepository decorates a PriceStore with Redis caching.
// Reads are served from Redis when possible; every Insert invalidates
// the latest snapshot and the history pages of the inserted symbol.
type CachingPriceRepository struct {
	inner     PriceStore
	rdb       *redis.Client
	ttl       time.Duration
	ttlFn     func() time.Duration
	namespace string
}

var (
	_ usecase.PriceRepository = (*CachingPriceRepository)(nil)
	_ usecase.PriceReader     = (*CachingPriceRepository)(nil)
)

// NewCachingPriceRepository decorates a PriceStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner PriceStore, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// WithTTLFunc makes every cache write use the TTL returned by f instead of the fixed ttl.
func (c *CachingPriceRepository) WithTTLFunc(f func() time.Duration) *CachingPriceRepository {
	c.ttlFn = f
	return c
}

// Insert writes through to the row store and invalidates related cache entries.
func (c *CachingPriceRepository) Insert(ctx context.Context, record entity.PriceRecord) error {
	if err := c.inner.Insert(ctx, record); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}

	// キャッシュ削除の失敗は保存結果に影響させない
	if err := c.rdb.Del(ctx, c.latestKey()).Err(); err != nil {
		slog.Warn("failed to invalidate latest prices", "error", err)
	}
	if err := c.deleteByPattern(ctx, c.historyPrefix(record.Symbol)+"*"); err != nil {
		slog.Warn("failed to invalidate price history", "symbol", record.Symbol, "error", err)
	}
	return nil
}

// Latest returns the latest record per symbol, checking the cache first.
func (c *CachingPriceRepository) Latest(ctx context.Context) ([]entity.PriceRecord, error) {
	return c.cached(ctx, c.latestKey(), func() ([]entity.PriceRecord, error) {
		return c.inner.Latest(ctx)
	})
}

// History returns the newest records of symbol, checking the cache first.
func (c *CachingPriceRepository) History(ctx context.Context, symbol string, limit int) ([]entity.PriceRecord, error) {
	key := fmt.Sprintf("%s%d", c.historyPrefix(symbol), limit)
	return c.cached(ctx, key, func() ([]entity.PriceRecord, error) {
		return c.inner.History(ctx, symbol, limit)
	})
}

func (c *CachingPriceRepository) cached(ctx context.Context, key string, load func() ([]entity.PriceRecord, error)) ([]entity.PriceRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceRecord
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.currentTTL()).Err()
	}
	return out, nil
}

func (c *CachingPriceRepository) currentTTL() time.Duration {
	if c.ttlFn != nil {
		if d := c.ttlFn(); d > 0 {
			return d
		}
	}
	return c.ttl
}

func (c *CachingPriceRepository) latestKey() string {
	return c.namespace + ":latest"
}

func (c *CachingPriceRepository) historyPrefix(symbol string) string {
	return fmt.Sprintf("%s:history:%s:", c.namespace, safe(strings.ToUpper(symbol)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
