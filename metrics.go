package heliogo

import (
	"sync/atomic"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
)

var _ interfaces.Observer = (*Metrics)(nil)

// Metrics aggregates kernel-wide operational counters, the same
// atomic-counter-struct shape the teacher's ublk.Metrics uses for block
// I/O, here scoped to memory, dispatch, and overflow events. A *Metrics
// satisfies interfaces.Observer, so a Kernel can be constructed with one
// wired straight into its regions and scheduler.
type Metrics struct {
	KernelAllocs  atomic.Uint64
	KernelFrees   atomic.Uint64
	UserAllocs    atomic.Uint64
	UserFrees     atomic.Uint64
	AllocFailures atomic.Uint64
	CorruptEvents atomic.Uint64

	Dispatches    atomic.Uint64
	WatchdogTrips atomic.Uint64
	Overflows     atomic.Uint64
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveAlloc implements interfaces.Observer.
func (m *Metrics) ObserveAlloc(region string, bytes uint32, success bool) {
	if !success {
		m.AllocFailures.Add(1)
		return
	}
	switch region {
	case "kernel":
		m.KernelAllocs.Add(1)
	default:
		m.UserAllocs.Add(1)
	}
}

// ObserveFree implements interfaces.Observer.
func (m *Metrics) ObserveFree(region string, success bool) {
	if !success {
		return
	}
	switch region {
	case "kernel":
		m.KernelFrees.Add(1)
	default:
		m.UserFrees.Add(1)
	}
}

// ObserveCorrupt implements interfaces.Observer.
func (m *Metrics) ObserveCorrupt(region string) {
	m.CorruptEvents.Add(1)
}

// ObserveDispatch implements interfaces.Observer.
func (m *Metrics) ObserveDispatch(taskID uint32, lastRunTicks uint32) {
	m.Dispatches.Add(1)
}

// ObserveWatchdogTrip implements interfaces.Observer.
func (m *Metrics) ObserveWatchdogTrip(taskID uint32) {
	m.WatchdogTrips.Add(1)
}

// ObserveOverflow implements interfaces.Observer.
func (m *Metrics) ObserveOverflow() {
	m.Overflows.Add(1)
}

// Snapshot is a point-in-time, non-atomic copy of Metrics for callers that
// want to print or compare counters without touching the atomics again.
type Snapshot struct {
	KernelAllocs  uint64
	KernelFrees   uint64
	UserAllocs    uint64
	UserFrees     uint64
	AllocFailures uint64
	CorruptEvents uint64
	Dispatches    uint64
	WatchdogTrips uint64
	Overflows     uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		KernelAllocs:  m.KernelAllocs.Load(),
		KernelFrees:   m.KernelFrees.Load(),
		UserAllocs:    m.UserAllocs.Load(),
		UserFrees:     m.UserFrees.Load(),
		AllocFailures: m.AllocFailures.Load(),
		CorruptEvents: m.CorruptEvents.Load(),
		Dispatches:    m.Dispatches.Load(),
		WatchdogTrips: m.WatchdogTrips.Load(),
		Overflows:     m.Overflows.Load(),
	}
}
