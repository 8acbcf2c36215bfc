package seoshop

import (
	"context"
	"time"
)

// SleepContext blocks for t or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, t time.Duration) error {
	timer := time.NewTimer(t)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
