// Package resilience provides retry handling for outbound calls to search,
// fetch and model backends. Policies are values; nothing here is shared
// between calls.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior with exponential backoff and jitter.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// 1 disables retries. Default: 3.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. Default: 500ms.
	InitialBackoff time.Duration

	// MaxBackoff caps a single delay. Default: 8s.
	MaxBackoff time.Duration

	// Multiplier scales the delay after each attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction randomizes each delay by ±fraction. Default: 0.2.
	JitterFraction float64

	// ShouldRetry overrides IsTransient when set.
	ShouldRetry func(err error) bool

	// OnRetry is invoked before each retry sleep.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns the policy used by the API clients.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// NoRetry returns a policy that makes exactly one attempt.
func NoRetry() Policy {
	p := DefaultPolicy()
	p.MaxAttempts = 1
	return p
}

// Call runs fn until it succeeds, returns a non-retryable error, the
// attempts are exhausted, or ctx is done. The last error is returned.
func Call[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = withDefaults(p)

	shouldRetry := p.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !shouldRetry(err) || attempt == p.MaxAttempts-1 {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		if Sleep(ctx, backoff(attempt, p)) != nil {
			return zero, lastErr
		}
	}

	return zero, lastErr
}

func withDefaults(p Policy) Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = d.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = d.MaxBackoff
	}
	if p.Multiplier <= 0 {
		p.Multiplier = d.Multiplier
	}
	if p.JitterFraction < 0 {
		p.JitterFraction = 0
	}
	return p
}

func backoff(attempt int, p Policy) time.Duration {
	delay := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt))
	if delay > float64(p.MaxBackoff) {
		delay = float64(p.MaxBackoff)
	}

	if p.JitterFraction > 0 {
		spread := delay * p.JitterFraction
		delay += (rand.Float64()*2 - 1) * spread
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Logger returns an OnRetry callback that logs each retry.
func Logger(service, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying call",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
