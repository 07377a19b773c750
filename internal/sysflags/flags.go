// Package sysflags holds the kernel's process-wide, single-threaded-access
// system flags (spec §3 "System flags"): running, overflow. They are safe to
// share as a plain struct rather than guard with a mutex because the kernel
// never runs more than one flow of execution at a time (spec §5).
package sysflags

// Flags is the shared mutable record the task registry and scheduler gate
// their behavior on. The zero value is ready to use.
type Flags struct {
	running  bool
	overflow bool
}

// Running reports whether the scheduler's main loop currently owns the
// single flow of execution. create_task/delete_task consult this to refuse
// mutation while true.
func (f *Flags) Running() bool { return f.running }

// SetRunning is called by the scheduler on entry to and exit from its main
// loop.
func (f *Flags) SetRunning(v bool) { f.running = v }

// Overflow reports whether total_run_time wrapped on some task's last
// dispatch.
func (f *Flags) Overflow() bool { return f.overflow }

// SetOverflow latches or clears the overflow flag.
func (f *Flags) SetOverflow(v bool) { f.overflow = v }
