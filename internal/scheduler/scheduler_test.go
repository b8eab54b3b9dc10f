package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	var runs atomic.Int32

	s := New(testLogger(), Job{
		Name:     "counter",
		Interval: 20 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	time.Sleep(110 * time.Millisecond)
	s.Stop()

	// Immediate run plus roughly five interval runs.
	got := runs.Load()
	if got < 3 {
		t.Errorf("Expected at least 3 runs, got %d", got)
	}
}

func TestScheduler_FailingJobDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32

	s := New(testLogger(), Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})

	s.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	if runs.Load() < 3 {
		t.Errorf("Failing job stopped ticking after %d runs", runs.Load())
	}
}

func TestScheduler_PanickingJobDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32

	s := New(testLogger(), Job{
		Name:     "panicky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			panic("kaboom")
		},
	})

	s.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	if runs.Load() < 3 {
		t.Errorf("Panicking job stopped ticking after %d runs", runs.Load())
	}
}

func TestScheduler_JobsAreIndependent(t *testing.T) {
	var fastRuns atomic.Int32
	block := make(chan struct{})

	s := New(testLogger(),
		Job{
			Name:     "stuck",
			Interval: 10 * time.Millisecond,
			Overlap:  SkipIfBusy,
			Run: func(ctx context.Context) error {
				select {
				case <-block:
				case <-ctx.Done():
				}
				return nil
			},
		},
		Job{
			Name:     "fast",
			Interval: 10 * time.Millisecond,
			Run: func(context.Context) error {
				fastRuns.Add(1)
				return nil
			},
		},
	)

	s.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	close(block)
	s.Stop()

	if fastRuns.Load() < 3 {
		t.Errorf("Fast job starved by stuck sibling: %d runs", fastRuns.Load())
	}
}

func TestScheduler_SkipIfBusyNeverOverlaps(t *testing.T) {
	var concurrent atomic.Int32
	var max atomic.Int32
	var runs atomic.Int32

	s := New(testLogger(), Job{
		Name:     "slow",
		Interval: 10 * time.Millisecond,
		Overlap:  SkipIfBusy,
		Run: func(context.Context) error {
			n := concurrent.Add(1)
			if n > max.Load() {
				max.Store(n)
			}
			runs.Add(1)
			time.Sleep(25 * time.Millisecond)
			concurrent.Add(-1)
			return nil
		},
	})

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if max.Load() > 1 {
		t.Errorf("SkipIfBusy job overlapped: max concurrency %d", max.Load())
	}
	if runs.Load() == 0 {
		t.Error("Job never ran")
	}
}

func TestScheduler_AllowOverlapRunsConcurrently(t *testing.T) {
	var concurrent atomic.Int32
	var max atomic.Int32

	s := New(testLogger(), Job{
		Name:     "overlapping",
		Interval: 10 * time.Millisecond,
		Overlap:  AllowOverlap,
		Run: func(ctx context.Context) error {
			n := concurrent.Add(1)
			for {
				old := max.Load()
				if n <= old || max.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(35 * time.Millisecond)
			concurrent.Add(-1)
			return nil
		},
	})

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if max.Load() < 2 {
		t.Errorf("AllowOverlap job never overlapped: max concurrency %d", max.Load())
	}
}

func TestScheduler_StopDrainsInFlightTicks(t *testing.T) {
	var finished atomic.Bool

	s := New(testLogger(), Job{
		Name:     "draining",
		Interval: time.Hour, // only the immediate tick fires
		Run: func(context.Context) error {
			time.Sleep(30 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})

	s.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight tick drained")
	}
}

func TestScheduler_StopAbandonsAfterDrainWindow(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := New(testLogger(), Job{
		Name:     "stuck",
		Interval: time.Hour,
		Run: func(context.Context) error {
			<-release
			return nil
		},
	})
	s.SetDrainTimeout(20 * time.Millisecond)

	s.Start(context.Background())
	time.Sleep(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Stop did not return within the drain window")
	}
}
