// Package scheduler drives the periodic settlement ticks. Each registered
// job runs on its own fixed interval, independently of its siblings: a
// failing or slow job never blocks or delays another.
package scheduler

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"global-pick-trade/internal/observability"
)

// OverlapPolicy controls what happens when a tick comes due while the
// previous tick of the same job is still running.
type OverlapPolicy int

const (
	// AllowOverlap starts the new tick concurrently. Entity updates must
	// be independently safe (the stores' version tokens cover this).
	AllowOverlap OverlapPolicy = iota

	// SkipIfBusy drops the overdue tick; the work happens on the next
	// interval instead.
	SkipIfBusy
)

// DefaultDrainTimeout bounds how long Stop waits for in-flight ticks.
const DefaultDrainTimeout = 30 * time.Second

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Overlap  OverlapPolicy
	Run      func(ctx context.Context) error
}

// Scheduler runs registered jobs until stopped. Tick errors and panics
// are logged and never stop the loop.
type Scheduler struct {
	jobs         []Job
	logger       *log.Logger
	drainTimeout time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool

	loops sync.WaitGroup // per-job loops, exit promptly on cancel
	ticks sync.WaitGroup // in-flight tick work, drained with a bound
}

// New creates a scheduler with the given jobs.
func New(logger *log.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:         jobs,
		logger:       logger,
		drainTimeout: DefaultDrainTimeout,
	}
}

// SetDrainTimeout overrides the bounded wait for in-flight ticks on Stop.
func (s *Scheduler) SetDrainTimeout(d time.Duration) {
	s.drainTimeout = d
}

// Start launches one loop per job. Every job runs a first tick
// immediately, then on every interval. Start is idempotent.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := range s.jobs {
		job := s.jobs[i]
		s.loops.Add(1)
		go s.runLoop(ctx, job)
	}
}

// Stop cancels all loops, then waits for in-flight ticks up to the drain
// timeout. Ticks still running after the window are abandoned.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.loops.Wait()

	done := make(chan struct{})
	go func() {
		s.ticks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.drainTimeout):
		s.logger.Printf("drain window elapsed, abandoning in-flight ticks")
	}
}

// runLoop fires job ticks on the job's interval until ctx is cancelled.
func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	defer s.loops.Done()

	var busy atomic.Bool
	fire := func() {
		if job.Overlap == SkipIfBusy && !busy.CompareAndSwap(false, true) {
			s.logger.Printf("[%s] previous tick still running, skipping", job.Name)
			observability.RecordTickSkipped(job.Name)
			return
		}
		s.ticks.Add(1)
		go func() {
			defer s.ticks.Done()
			if job.Overlap == SkipIfBusy {
				defer busy.Store(false)
			}
			s.runTick(ctx, job)
		}()
	}

	fire()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}

// runTick executes one tick, containing errors and panics.
func (s *Scheduler) runTick(ctx context.Context, job Job) {
	start := time.Now()
	status := "ok"

	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("[%s] tick panicked: %v\n%s", job.Name, r, debug.Stack())
			observability.RecordTick(job.Name, "panic", time.Since(start).Seconds())
		}
	}()

	if err := job.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return // shutdown, not a tick failure
		}
		s.logger.Printf("[%s] tick failed: %v", job.Name, err)
		status = "error"
	}
	observability.RecordTick(job.Name, status, time.Since(start).Seconds())
	if status == "ok" {
		observability.DefaultMetrics.LastSuccessfulTick.WithLabelValues(job.Name).SetToCurrentTime()
	}
}
