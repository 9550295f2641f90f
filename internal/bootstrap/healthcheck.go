package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
)

// StartupChecker blocks until a dependency answers its health check or the retry
// budget runs out.
type StartupChecker struct {
	timeout       time.Duration
	retryInterval time.Duration
	maxRetries    int
	logger        logger.Logger
}

func NewStartupChecker(timeout, retryInterval time.Duration, maxRetries int, log logger.Logger) *StartupChecker {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &StartupChecker{
		timeout:       timeout,
		retryInterval: retryInterval,
		maxRetries:    maxRetries,
		logger:        log.WithField("component", "startup_checker"),
	}
}

func (h *StartupChecker) checkWithRetry(ctx context.Context, serviceName string, checkFunc func(context.Context) error) error {
	var lastErr error

	for i := 0; i < h.maxRetries; i++ {
		h.logger.Debugf("Checking %s (attempt %d/%d)", serviceName, i+1, h.maxRetries)

		checkCtx, cancel := h.attemptContext(ctx)
		err := checkFunc(checkCtx)
		cancel()

		if err == nil {
			h.logger.Infof("%s health check passed", serviceName)
			return nil
		}

		lastErr = err
		h.logger.Warnf("%s health check failed (attempt %d/%d): %v", serviceName, i+1, h.maxRetries, err)

		if i < h.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.retryInterval):
			}
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", h.maxRetries, lastErr)
}

func (h *StartupChecker) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}
