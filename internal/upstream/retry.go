package upstream

import (
	"context"
	"time"

	"study_session_gateway/pkg/monitoring"
)

// Policy 有界重试策略，按资源参数化
// MaxAttempts 是总尝试次数；中间失败静默，只有最终结果可观察
type Policy struct {
	MaxAttempts int
	Delay       func(attempt int) time.Duration
}

// LinearDelay 第n次重试前等待 base*n
func LinearDelay(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Do 执行fn直到成功或尝试次数耗尽，返回最后一次错误
func (p Policy) Do(ctx context.Context, resource string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			monitoring.UpstreamRetries.WithLabelValues(resource).Inc()
			delay := time.Duration(0)
			if p.Delay != nil {
				delay = p.Delay(attempt - 1)
			}
			if delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
