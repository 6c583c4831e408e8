// Package schedule triggers the aggregation cycle on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/standup-notifier/internal/logging"
	"github.com/robfig/cron/v3"
)

// Job is the work a tick performs; errors are logged, not retried. The
// notification cycle gates itself on the configured send time, so ticks are
// expected to fire far more often than work actually happens.
type Job func(ctx context.Context) error

// Runner owns the cron schedule for a single job.
type Runner struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRunner parses a six-field cron expression (seconds included) and
// registers the job against it.
func NewRunner(expression string, job Job, logger *slog.Logger) (*Runner, error) {
	if job == nil {
		return nil, fmt.Errorf("schedule: job is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New(cron.WithSeconds())
	runner := &Runner{cron: c, logger: logger}

	if _, err := c.AddFunc(expression, func() {
		runner.RunOnce(context.Background(), job)
	}); err != nil {
		return nil, fmt.Errorf("schedule: invalid cron expression %q: %w", expression, err)
	}

	return runner, nil
}

// RunOnce executes the job immediately with a cycle-scoped logger attached
// to the context. Used for both cron ticks and the run-on-startup flag.
func (r *Runner) RunOnce(ctx context.Context, job Job) {
	logger := r.logger.With("trigger", "schedule")
	ctx = logging.ContextWithLogger(ctx, logger)
	if err := job(ctx); err != nil {
		logger.ErrorContext(ctx, "notification cycle failed", "error", err)
	}
}

// Start begins firing ticks.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the schedule and returns a context that closes once any
// in-flight job finishes.
func (r *Runner) Stop() context.Context {
	return r.cron.Stop()
}
