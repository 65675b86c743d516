// Package jobs schedules periodic maintenance work onto the worker pool.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/worker"
)

// Scheduler turns cron entries into jobs on a worker pool. Cron only decides
// when; the pool does the work so a slow job never stalls the cron loop.
type Scheduler struct {
	cron    *cron.Cron
	pool    *worker.Pool
	log     *logger.Logger
	mu      sync.Mutex
	running bool
}

func NewScheduler(pool *worker.Pool, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		pool: pool,
		log:  logger.Default().WithPrefix("scheduler"),
	}
}

// Add registers job under a standard five-field cron spec.
func (s *Scheduler) Add(spec string, job worker.Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.Trigger(job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	s.log.Info("scheduled job %s at %q", job.Name(), spec)
	return nil
}

// Trigger submits job to the pool now.
func (s *Scheduler) Trigger(job worker.Job) {
	if err := s.pool.Submit(job); err != nil {
		s.log.Warn("could not queue %s: %v", job.Name(), err)
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started with %d entries", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for in-flight cron callbacks, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out: %v", ctx.Err())
	}
}

// Next returns the next run time of every entry, in registration order.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}
