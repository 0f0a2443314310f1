package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crypto_monitor/internal/app/config"
	priceadapters "crypto_monitor/internal/feature/prices/adapters"
	"crypto_monitor/internal/platform/cache"
)

// NewPriceStore returns the row store wrapped in the Redis cache.
// When rdb is nil the cache is bypassed and every call reaches the database.
func NewPriceStore(db *gorm.DB, rdb *redis.Client, cfg config.Config) *cache.CachingPriceRepository {
	interval := cfg.CycleInterval
	return cache.NewCachingPriceRepository(rdb, interval, priceadapters.NewPriceRepository(db), "prices").
		WithTTLFunc(func() time.Duration {
			return cache.TimeUntilNextCycle(time.Now(), interval)
		})
}
