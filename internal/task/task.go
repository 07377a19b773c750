// Package task implements the task descriptor, the task registry, and the
// task state machine (spec §3 "Task descriptor", §4.2, §4.3).
package task

import (
	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/ehrlich-b/heliogo/internal/memory"
)

// Handle is a non-owning reference to a task descriptor: the kernel-heap
// address of its placeholder allocation. Validity depends on the descriptor
// still being registered (spec §3 "Task registry" ownership note).
type Handle memory.Address

// NoHandle is the sentinel invalid handle.
const NoHandle = Handle(memory.NoAddress)

// State is a task's position in the state machine (spec §4.3).
type State int

const (
	// Suspended is the initial state and the state watchdog expiration
	// forces a task back into.
	Suspended State = iota
	// Running is an eligibility class for the runtime balancer, not a
	// statement that the task is presently executing (spec §4.3).
	Running
	// Waiting means eligible only upon event: notification present or
	// timer elapsed.
	Waiting
	// Error is a sentinel returned only by queries when lookup fails; no
	// task descriptor is ever stored with this state.
	Error
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "Suspended"
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	default:
		return "Error"
	}
}

// Callback is a task's entry point, receiving its own handle and the opaque
// parameter it was created with.
type Callback func(handle Handle, parameter any)

// Descriptor holds one task's mutable state (spec §3). Fields are exported
// for the scheduler package, which shares the single cooperative flow of
// execution and mutates them directly during a dispatch pass.
type Descriptor struct {
	ID       uint32
	Name     []byte
	State    State
	Callback Callback
	Param    any

	TimerPeriod    uint32
	TimerStart     uint32
	WDTimerPeriod  uint32
	LastRunTime    uint32
	TotalRunTime   uint32

	NotificationBytes uint8
	NotificationValue []byte
}

// Info is a read-only snapshot of a descriptor's identity and state,
// returned by GetTaskInfo/GetAllInfo (spec §4.2).
type Info struct {
	ID    uint32
	Name  []byte
	State State
}

// RuntimeStats is a read-only snapshot of a descriptor's scheduling history.
type RuntimeStats struct {
	ID           uint32
	LastRunTime  uint32
	TotalRunTime uint32
}

// Dispatch runs one invocation of the task's callback, the sub-procedure
// spec §4.4 calls "Dispatch": snapshot, invoke, account, watchdog check,
// overflow check. tick supplies start/end readings around the callback.
// Returns whether the watchdog forced a suspend and whether total_run_time
// wrapped on this dispatch.
func (d *Descriptor) Dispatch(handle Handle, tick interfaces.TickSource, observer interfaces.Observer) (watchdogTripped, overflowed bool) {
	previousTotal := d.TotalRunTime
	start := tick.Now()

	d.Callback(handle, d.Param)

	end := tick.Now()
	d.LastRunTime = end - start
	d.TotalRunTime += d.LastRunTime

	if d.WDTimerPeriod > 0 && d.LastRunTime > d.WDTimerPeriod {
		d.State = Suspended
		watchdogTripped = true
		observer.ObserveWatchdogTrip(d.ID)
	}

	if d.TotalRunTime < previousTotal {
		overflowed = true
		observer.ObserveOverflow()
	}

	observer.ObserveDispatch(d.ID, d.LastRunTime)
	return watchdogTripped, overflowed
}
