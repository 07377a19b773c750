package heliogo

import (
	"sync"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
)

var _ interfaces.Observer = (*RecordingObserver)(nil)

// RecordingObserver is a mock interfaces.Observer that tracks every event
// it receives for verification, the same call-counting idiom the teacher's
// MockBackend uses for its ReadAt/WriteAt/Flush/Sync calls.
type RecordingObserver struct {
	mu sync.RWMutex

	allocCalls int
	freeCalls  int
	corruptCalls int
	dispatchCalls int
	watchdogCalls int
	overflowCalls int

	lastAllocRegion string
	lastAllocBytes  uint32
	lastAllocOK     bool

	lastDispatchTaskID uint32
	lastDispatchTicks  uint32

	lastWatchdogTaskID uint32
}

// NewRecordingObserver returns a zeroed RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// ObserveAlloc implements interfaces.Observer.
func (r *RecordingObserver) ObserveAlloc(region string, bytes uint32, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocCalls++
	r.lastAllocRegion = region
	r.lastAllocBytes = bytes
	r.lastAllocOK = success
}

// ObserveFree implements interfaces.Observer.
func (r *RecordingObserver) ObserveFree(region string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.freeCalls++
}

// ObserveCorrupt implements interfaces.Observer.
func (r *RecordingObserver) ObserveCorrupt(region string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corruptCalls++
}

// ObserveDispatch implements interfaces.Observer.
func (r *RecordingObserver) ObserveDispatch(taskID uint32, lastRunTicks uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatchCalls++
	r.lastDispatchTaskID = taskID
	r.lastDispatchTicks = lastRunTicks
}

// ObserveWatchdogTrip implements interfaces.Observer.
func (r *RecordingObserver) ObserveWatchdogTrip(taskID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchdogCalls++
	r.lastWatchdogTaskID = taskID
}

// ObserveOverflow implements interfaces.Observer.
func (r *RecordingObserver) ObserveOverflow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overflowCalls++
}

// CallCounts returns how many times each Observe* method has been called,
// keyed by event name.
func (r *RecordingObserver) CallCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]int{
		"alloc":    r.allocCalls,
		"free":     r.freeCalls,
		"corrupt":  r.corruptCalls,
		"dispatch": r.dispatchCalls,
		"watchdog": r.watchdogCalls,
		"overflow": r.overflowCalls,
	}
}

// LastDispatch returns the taskID and run length from the most recent
// ObserveDispatch call.
func (r *RecordingObserver) LastDispatch() (taskID uint32, ticks uint32) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastDispatchTaskID, r.lastDispatchTicks
}

// LastAlloc returns the region, size, and outcome from the most recent
// ObserveAlloc call.
func (r *RecordingObserver) LastAlloc() (region string, bytes uint32, success bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastAllocRegion, r.lastAllocBytes, r.lastAllocOK
}

// Reset clears every counter and recorded value.
func (r *RecordingObserver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocCalls, r.freeCalls, r.corruptCalls = 0, 0, 0
	r.dispatchCalls, r.watchdogCalls, r.overflowCalls = 0, 0, 0
	r.lastAllocRegion, r.lastAllocBytes, r.lastAllocOK = "", 0, false
	r.lastDispatchTaskID, r.lastDispatchTicks = 0, 0
	r.lastWatchdogTaskID = 0
}
