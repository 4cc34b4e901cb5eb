package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"geoeconews/internal/ports"
)

// IntervalScheduler drives the pipeline on a fixed interval. Runs never
// overlap: a trigger that fires while a run is in flight is skipped, and a
// grace window swallows jitter double-fires.
type IntervalScheduler struct {
	interval   time.Duration
	grace      time.Duration
	runOnStart bool
	logger     *slog.Logger

	mu        sync.Mutex
	running   bool
	lastStart time.Time
	stop      chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler; runOnStart fires one eager cycle
// as soon as Start is called.
func NewIntervalScheduler(interval, grace time.Duration, runOnStart bool, logger *slog.Logger) *IntervalScheduler {
	return &IntervalScheduler{
		interval:   interval,
		grace:      grace,
		runOnStart: runOnStart,
		logger:     logger,
	}
}

// Start begins ticking until Stop or context cancellation. Each trigger runs
// the job on its own goroutine, guarded by the single-run flag.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		if s.runOnStart {
			go s.fire(time.Now(), job)
		}

		for {
			select {
			case t := <-ticker.C:
				go s.fire(t, job)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// fire runs the job once if no run is in flight and the grace window since
// the previous start has elapsed.
func (s *IntervalScheduler) fire(trigger time.Time, job func(time.Time)) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.debug("skip trigger, run still in flight", "trigger", trigger)
		return
	}
	if !s.lastStart.IsZero() && trigger.Sub(s.lastStart) < s.grace {
		s.mu.Unlock()
		s.debug("coalesce trigger inside grace window", "trigger", trigger)
		return
	}
	s.running = true
	s.lastStart = trigger
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	job(trigger)
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}

func (s *IntervalScheduler) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
