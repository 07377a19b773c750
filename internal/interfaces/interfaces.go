// Package interfaces provides the internal capability interfaces the kernel
// consumes from the outside world. These are separate from the public
// package's re-exports to avoid circular imports between the root package
// and the internal packages that implement the kernel core.
package interfaces

// TickSource supplies the monotonic, possibly-wrapping tick counter the
// scheduler and per-task timers are driven by (spec §6). Resolution
// (microseconds, milliseconds, ...) is defined by the implementation.
type TickSource interface {
	// Now returns the current tick count.
	Now() uint32
}

// InterruptController enables and disables interrupts around the tick
// counter increment (spec §5). Nesting is not required: a single
// disable/enable pair brackets each critical update.
type InterruptController interface {
	Disable()
	Enable()
}

// Logger is the minimal logging capability the kernel core depends on.
// Concrete loggers (internal/logging.Logger) satisfy this implicitly.
type Logger interface {
	Printf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Observer receives metrics events from the memory manager and scheduler.
// Implementations must be safe to call from the single cooperative flow of
// execution; no concurrent calls are ever made by the kernel itself.
type Observer interface {
	ObserveAlloc(region string, bytes uint32, success bool)
	ObserveFree(region string, success bool)
	ObserveCorrupt(region string)
	ObserveDispatch(taskID uint32, lastRunTicks uint32)
	ObserveWatchdogTrip(taskID uint32)
	ObserveOverflow()
}

// NoOpObserver implements Observer with no side effects, the default when
// no caller-supplied Observer is configured.
type NoOpObserver struct{}

func (NoOpObserver) ObserveAlloc(string, uint32, bool) {}
func (NoOpObserver) ObserveFree(string, bool)          {}
func (NoOpObserver) ObserveCorrupt(string)              {}
func (NoOpObserver) ObserveDispatch(uint32, uint32)     {}
func (NoOpObserver) ObserveWatchdogTrip(uint32)         {}
func (NoOpObserver) ObserveOverflow()                   {}

var _ Observer = NoOpObserver{}
