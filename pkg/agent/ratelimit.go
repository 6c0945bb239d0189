package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// newLimiter spaces model calls so no more than rpm happen in a minute.
// A non-positive rpm disables limiting.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

func waitTurn(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// Wait refuses early when the next slot lies past the deadline.
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("%w: rate limit: %v", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}
