package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupChecker_CheckWithRetry(t *testing.T) {
	t.Run("passes after transient failures", func(t *testing.T) {
		checker := NewStartupChecker(time.Second, time.Millisecond, 3, logger.Discard())

		attempts := 0
		err := checker.checkWithRetry(context.Background(), "store", func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("connection refused")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up with last error", func(t *testing.T) {
		checker := NewStartupChecker(time.Second, time.Millisecond, 2, logger.Discard())
		lastErr := errors.New("still down")

		err := checker.checkWithRetry(context.Background(), "store", func(ctx context.Context) error {
			return lastErr
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, lastErr)
		assert.Contains(t, err.Error(), "all 2 attempts failed")
	})

	t.Run("attempts carry a deadline", func(t *testing.T) {
		checker := NewStartupChecker(50*time.Millisecond, time.Millisecond, 1, logger.Discard())

		err := checker.checkWithRetry(context.Background(), "store", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})

		require.NoError(t, err)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		checker := NewStartupChecker(time.Second, time.Hour, 5, logger.Discard())
		ctx, cancel := context.WithCancel(context.Background())

		attempts := 0
		err := checker.checkWithRetry(ctx, "store", func(ctx context.Context) error {
			attempts++
			cancel()
			return errors.New("down")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		checker := NewStartupChecker(0, 0, 0, logger.Discard())

		attempts := 0
		require.NoError(t, checker.checkWithRetry(context.Background(), "store", func(ctx context.Context) error {
			attempts++
			return nil
		}))
		assert.Equal(t, 1, attempts)
	})
}
