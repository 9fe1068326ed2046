package gateway

import (
	"context"
	"time"

	"courier-companion/internal/apperr"
	"courier-companion/internal/logx"
)

// RetryConfig описывает поведение RetryingClient
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingClient repeats idempotent reads that failed with a transient error.
// Writes (accept, verify-pin, status updates) go through exactly once.
type RetryingClient struct {
	next    Doer
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(context.Context, time.Duration) bool
}

// NewRetryingClient returns nil when next is nil.
func NewRetryingClient(next Doer, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingClient {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingClient{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Do implements Doer.
func (c *RetryingClient) Do(ctx context.Context, req Request) ([]byte, error) {
	if !req.Idempotent() {
		return c.next.Do(ctx, req)
	}
	var lastErr error
	// цикл по повторам
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		body, err := c.next.Do(ctx, req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == c.cfg.MaxAttempts || !apperr.Retryable(err) {
			break
		}
		delay := backoff(c.cfg.BaseDelay, c.cfg.MaxDelay, attempt)
		if c.retries != nil {
			c.retries.Inc()
		}
		c.logger.Warn("gateway retry",
			logx.String("op", req.Op),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !c.wait(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// backoff вычисляет задержку повтора
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d <= 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
