package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/k-shtanenko/temperature-archive/internal/domain/ports"
	"github.com/k-shtanenko/temperature-archive/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

const minInterval = time.Second

type CronScheduler struct {
	cron        *cron.Cron
	jobs        map[string]cron.EntryID
	taskTimeout time.Duration
	mu          sync.RWMutex
	logger      logger.Logger
}

// NewCronScheduler starts an empty scheduler. Overlapping runs of the same job are
// skipped and panics inside a task are recovered.
func NewCronScheduler(taskTimeout time.Duration, log logger.Logger) *CronScheduler {
	log = log.WithField("component", "cron_scheduler")
	cl := cronLogger{log: log}

	c := cron.New(
		cron.WithLogger(cl),
		// Recover sits inside SkipIfStillRunning so a panic still releases the run slot.
		cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
	)

	scheduler := &CronScheduler{
		cron:        c,
		jobs:        make(map[string]cron.EntryID),
		taskTimeout: taskTimeout,
		logger:      log,
	}

	c.Start()
	scheduler.logger.Info("Cron scheduler started")

	return scheduler
}

func (c *CronScheduler) Schedule(ctx context.Context, name string, interval time.Duration, task ports.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.jobs[name]; exists {
		return fmt.Errorf("job with name '%s' already exists", name)
	}

	spec := intervalToSpec(interval)
	c.logger.Infof("Scheduling job '%s' with interval %v (cron: %s)", name, interval, spec)

	entryID, err := c.cron.AddFunc(spec, func() {
		c.runTask(name, task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job '%s': %w", name, err)
	}

	c.jobs[name] = entryID
	return nil
}

func (c *CronScheduler) runTask(name string, task ports.Task) {
	startTime := time.Now()
	c.logger.Debugf("Starting scheduled job: %s", name)

	ctx := context.Background()
	if c.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.taskTimeout)
		defer cancel()
	}

	if err := task(ctx); err != nil {
		c.logger.Errorf("Job '%s' failed after %v: %v", name, time.Since(startTime), err)
		return
	}

	c.logger.Debugf("Job '%s' completed in %v", name, time.Since(startTime))
}

func (c *CronScheduler) Stop() {
	c.logger.Info("Stopping cron scheduler...")
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := c.cron.Stop()
	<-ctx.Done()

	c.jobs = make(map[string]cron.EntryID)
	c.logger.Info("Cron scheduler stopped")
}

func (c *CronScheduler) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.cron.Entries()) == 0 && len(c.jobs) > 0 {
		return fmt.Errorf("cron has no entries but jobs are registered")
	}

	for name, entryID := range c.jobs {
		if entry := c.cron.Entry(entryID); entry.ID != entryID {
			return fmt.Errorf("job '%s' not found in cron", name)
		}
	}

	return nil
}

func intervalToSpec(interval time.Duration) string {
	if interval <= 0 {
		return "@every 1m"
	}
	if interval < minInterval {
		interval = minInterval
	}
	return "@every " + interval.String()
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Errorf("%s: %v", msg, err)
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
