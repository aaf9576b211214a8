package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestCall_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Call(context.Background(), fastPolicy(), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestCall_RetriesTransient(t *testing.T) {
	calls := 0
	got, err := Call(context.Background(), fastPolicy(), func(_ context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewTransientError(errors.New("busy"), 503)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestCall_ExhaustsAttempts(t *testing.T) {
	calls := 0
	got, err := Call(context.Background(), fastPolicy(), func(_ context.Context) (int, error) {
		calls++
		return 7, NewTransientError(errors.New("down"), 500)
	})
	require.Error(t, err)
	assert.Equal(t, 0, got)
	assert.Equal(t, 3, calls)
}

func TestCall_PermanentErrorNoRetry(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), fastPolicy(), func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCall_NoRetryPolicy(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), NoRetry(), func(_ context.Context) (int, error) {
		calls++
		return 0, NewTransientError(errors.New("busy"), 429)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCall_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Call(ctx, fastPolicy(), func(_ context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(errors.New("busy"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCall_OnRetryAndShouldRetry(t *testing.T) {
	var attempts []int
	p := fastPolicy()
	p.ShouldRetry = func(err error) bool { return err.Error() == "again" }
	p.OnRetry = func(attempt int, _ error) { attempts = append(attempts, attempt) }

	calls := 0
	_, err := Call(context.Background(), p, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("again")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	p := Policy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, backoff(0, p))
	assert.Equal(t, 200*time.Millisecond, backoff(1, p))
	assert.Equal(t, 300*time.Millisecond, backoff(2, p))
	assert.Equal(t, 300*time.Millisecond, backoff(5, p))
}

func TestBackoff_JitterWithinRange(t *testing.T) {
	p := Policy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2, JitterFraction: 0.5}
	for range 50 {
		d := backoff(0, p)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestLogger(t *testing.T) {
	fn := Logger("groq", "complete")
	assert.NotPanics(t, func() { fn(1, errors.New("boom")) })
}
