package resilience

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d. It returns ctx.Err() if ctx ends first. Non-positive
// durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
