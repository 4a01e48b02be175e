package mock

import (
	"context"
	"fmt"

	"iqoption-mock/trading"
)

// withRetry runs fn behind a simulated outage. Outages are retried until
// MaxRetries attempts have failed; errors returned by fn itself are not.
func withRetry[T any](ctx context.Context, c *client, op string, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		if !c.unavailable() {
			return fn()
		}

		c.log.Error("api unavailable", "op", op, "attempt", attempt)
		if attempt >= c.config.MaxRetries {
			return zero, fmt.Errorf("%s after %d attempts: %w", op, attempt, trading.ErrUnavailable)
		}
		c.log.Info("retrying after api error", "op", op)
	}
}

func (c *client) unavailable() bool {
	if c.config.FailChance <= 0 {
		return false
	}
	return c.rand.Float64() < c.config.FailChance
}
