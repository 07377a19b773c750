//go:build linux

package sched

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCPU locks the calling goroutine to its OS thread and pins that
// thread to cpuIdx, the same affinity discipline the teacher's ioLoop uses
// to satisfy ublk's one-thread-per-queue requirement — here because the
// spec models "exactly one flow of execution" (spec §5), and a migrating
// goroutine would make tick readings and dispatch timing jitter in ways a
// single-core MCU never would. Returns the unpin function.
func pinToCPU(cpuIdx int, logger logger) func() {
	runtime.LockOSThread()

	var mask unix.CPUSet
	mask.Set(cpuIdx)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		if logger != nil {
			logger.Printf("sched: failed to set CPU affinity to %d: %v", cpuIdx, err)
		}
	} else if logger != nil {
		logger.Debugf("sched: pinned scheduler loop to CPU %d", cpuIdx)
	}

	return runtime.UnlockOSThread
}
