// Package ratelimiter はプライマリ取引所APIへの呼び出し頻度を制限します。
package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、固定ウィンドウ方式で操作の頻度を制限します。
// 取得処理は逐次実行のみを前提とするため、ロックは持ちません。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // ウィンドウの長さ
	count     int
	lastReset time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が 0 以下の場合は制限を行いません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return newRateLimiter(limit, interval, time.Now, time.Sleep)
}

func newRateLimiter(limit int, interval time.Duration, now func() time.Time, sleep func(time.Duration)) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: now(),
		now:       now,
		sleep:     sleep,
	}
}

// WaitIfNeededはウィンドウ内の上限に達しているかを確認し、必要であれば次のウィンドウまで待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	if rl.limit <= 0 {
		return
	}
	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		wait := rl.interval - now.Sub(rl.lastReset)
		if wait > 0 {
			slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
			rl.sleep(wait)
		}
		rl.count = 1
		rl.lastReset = rl.now()
	}
}
