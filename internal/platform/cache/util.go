package cache

import (
	"time"
)

// minTTL keeps a snapshot cached briefly even right before the next cycle.
const minTTL = 5 * time.Second

// TimeUntilNextCycle は interval 刻みで実行される次の監視サイクルまでの期間を返します。
// サイクルは壁時計の interval 境界（例: 5分ごとなら :00, :05, ...）で起動される前提です。
func TimeUntilNextCycle(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	next := now.Truncate(interval).Add(interval)
	d := next.Sub(now)
	if d < minTTL {
		d = minTTL
	}
	return d
}
