package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsScreener/internal/ports"
)

// Runner wires the interval driver with the pipeline for daemon mode.
type Runner struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewRunner returns a helper to start/stop recurring pipeline runs.
func NewRunner(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Runner {
	return &Runner{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline with the provided scheduler. Each trigger
// re-evaluates which report kinds are due.
func (r *Runner) Start(ctx context.Context) error {
	if r.driver == nil || r.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := r.pipeline.Run(ctx, trigger, nil); err != nil && r.logger != nil {
			r.logger.Error("scheduled run failed", "error", err)
		}
	}

	return r.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (r *Runner) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Stop(ctx)
}
