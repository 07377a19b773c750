//go:build !linux

package sched

// pinToCPU is a no-op off Linux (simulated/dev builds); the scheduler loop
// still runs single-threaded, just without a hard CPU pin.
func pinToCPU(cpuIdx int, logger logger) func() {
	return func() {}
}
