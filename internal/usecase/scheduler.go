package usecase

import (
	"context"
	"time"

	"ArticlePromoter/internal/ports"
)

// Scheduler wires the interval driver with recurring pipeline runs.
type Scheduler struct {
	driver ports.Scheduler
	run    func(context.Context) error
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, run func(context.Context) error) *Scheduler {
	return &Scheduler{driver: driver, run: run}
}

// Start registers the run function with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	job := func(time.Time) {
		_ = s.run(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
