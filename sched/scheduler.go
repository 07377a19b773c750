// Package sched implements the single-threaded cooperative scheduler (spec
// §4.4): runtime-balanced candidate selection, event-driven dispatch
// ordering, and watchdog enforcement.
package sched

import (
	"math"
	"sync/atomic"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/ehrlich-b/heliogo/internal/sysflags"
	"github.com/ehrlich-b/heliogo/internal/task"
)

// logger is a local alias so affinity_linux.go/affinity_stub.go don't need
// their own import of internal/interfaces.
type logger = interfaces.Logger

// Options configures a Scheduler's optional CPU pinning.
type Options struct {
	// CPUAffinity, if non-negative, pins the scheduler loop's OS thread to
	// this CPU index for the duration of StartScheduler (Linux only).
	CPUAffinity int
}

// DefaultOptions disables CPU pinning.
func DefaultOptions() Options {
	return Options{CPUAffinity: -1}
}

// Scheduler runs the cooperative main loop over a task.Registry.
type Scheduler struct {
	registry *task.Registry
	flags    *sysflags.Flags
	tick     interfaces.TickSource
	observer interfaces.Observer
	logger   interfaces.Logger
	metrics  *Metrics
	opts     Options

	// stopRequested is written by SuspendAll, which spec §4.4 only promises
	// is safe "from within a task callback" but which callers (see
	// cmd/heliosim's time.AfterFunc) also invoke from a separate goroutine while
	// StartScheduler's loop is reading it concurrently; atomic.Bool makes
	// that cross-goroutine case safe too.
	stopRequested atomic.Bool
}

// New constructs a Scheduler. observer and logger may be nil, in which case
// a no-op observer and no logging are used.
func New(registry *task.Registry, flags *sysflags.Flags, tick interfaces.TickSource, observer interfaces.Observer, log interfaces.Logger, opts Options) *Scheduler {
	if observer == nil {
		observer = interfaces.NoOpObserver{}
	}
	return &Scheduler{
		registry: registry,
		flags:    flags,
		tick:     tick,
		observer: observer,
		logger:   log,
		metrics:  NewMetrics(),
		opts:     opts,
	}
}

// Metrics returns the scheduler's dispatch-latency counters.
func (s *Scheduler) Metrics() *Metrics {
	return s.metrics
}

// SuspendAll requests the main loop exit after finishing its current pass
// (spec §4.4). Safe to call from within a task callback, and also safe to
// call from a separate goroutine while StartScheduler's loop is running.
func (s *Scheduler) SuspendAll() {
	s.stopRequested.Store(true)
}

// StartScheduler runs the main loop until SuspendAll is called. Returns
// immediately without entering the loop if the registry is empty or the
// scheduler is already running (spec §4.4 pre-conditions).
func (s *Scheduler) StartScheduler() {
	if s.registry.NumberOfTasks() == 0 || s.flags.Running() {
		return
	}

	if s.opts.CPUAffinity >= 0 {
		unpin := pinToCPU(s.opts.CPUAffinity, s.logger)
		defer unpin()
	}

	s.flags.SetRunning(true)
	defer s.flags.SetRunning(false)
	s.stopRequested.Store(false)

	for {
		s.pass()
		s.metrics.Passes.Add(1)
		if s.stopRequested.Load() {
			return
		}
	}
}

// pass runs one full walk of the registry (spec §4.4 "Main loop").
func (s *Scheduler) pass() {
	if s.flags.Overflow() {
		for _, e := range s.registry.Entries() {
			e.Descriptor.TotalRunTime = e.Descriptor.LastRunTime
		}
		s.flags.SetOverflow(false)
	}

	var candidate *task.Descriptor
	var candidateHandle task.Handle
	least := uint32(math.MaxUint32)

	now := s.tick.Now()
	for _, e := range s.registry.Entries() {
		d := e.Descriptor
		switch {
		case d.State == task.Waiting && d.NotificationBytes > 0:
			s.dispatch(e.Handle, d)
		case d.State == task.Waiting && d.TimerPeriod > 0 && (now-d.TimerStart) > d.TimerPeriod:
			s.dispatch(e.Handle, d)
			d.TimerStart = now
		case d.State == task.Running && d.TotalRunTime < least:
			candidate = d
			candidateHandle = e.Handle
			least = d.TotalRunTime
		}
	}

	if candidate != nil {
		s.dispatch(candidateHandle, candidate)
	}
}

// dispatch invokes Descriptor.Dispatch and folds its result into scheduler
// state (spec §4.4 "Dispatch" steps 6-7).
func (s *Scheduler) dispatch(handle task.Handle, d *task.Descriptor) {
	watchdogTripped, overflowed := d.Dispatch(handle, s.tick, s.observer)
	s.metrics.recordDispatch(d.LastRunTime)
	if watchdogTripped {
		s.metrics.WatchdogTrips.Add(1)
	}
	if overflowed {
		s.flags.SetOverflow(true)
		s.metrics.Overflows.Add(1)
	}
}
