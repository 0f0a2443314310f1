// Package retry provides a bounded exponential-backoff retry helper.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrAttemptsExhausted は最大試行回数に達しても成功しなかった場合に返されます。
var ErrAttemptsExhausted = errors.New("retry: attempts exhausted")

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy はリトライの挙動を定義します。
type Policy struct {
	MaxAttempts int                  // 最大試行回数（初回を含む）
	BaseDelay   time.Duration        // 1回目の失敗後の待機時間。以降は倍々に増加
	Retryable   func(err error) bool // nil の場合はすべてのエラーをリトライ対象とする
	Sleep       Sleeper              // nil の場合は SleepContext を使用
}

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Delay returns the wait after the given failed attempt (1-based): BaseDelay * 2^(attempt-1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}

// Do は op を実行し、リトライ対象のエラーであれば指数バックオフで再試行します。
// リトライ対象外のエラーは即座に返します。
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := p.Delay(attempt)
		slog.Warn("retrying after backoff", "attempt", attempt, "wait", wait, "error", err)
		if serr := sleep(ctx, wait); serr != nil {
			return fmt.Errorf("retry: wait interrupted: %w", serr)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, p.MaxAttempts, err)
}
