package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SucceedsAfterRetries(t *testing.T) {
	policy := NewRetryPolicy(3, time.Millisecond)
	calls := 0

	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	policy := NewRetryPolicy(2, time.Millisecond)
	sentinel := errors.New("down")
	calls := 0

	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestExecute_SingleAttemptReturnsRawError(t *testing.T) {
	policy := NewRetryPolicy(0, time.Millisecond)
	sentinel := errors.New("down")

	err := policy.Execute(context.Background(), func(ctx context.Context) error { return sentinel })

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, policy.Attempts())
}

func TestExecute_StopsOnContextCancel(t *testing.T) {
	policy := NewRetryPolicy(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := policy.Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gave up after 1 attempts")
	assert.Equal(t, 1, calls)
}

func TestExecute_PermanentStopsImmediately(t *testing.T) {
	policy := NewRetryPolicy(5, time.Millisecond)
	sentinel := errors.New("not found")
	calls := 0

	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(sentinel)
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls)
}
