// Package heliogo implements a cooperative, single-threaded real-time
// kernel simulator: a two-region fixed-block memory allocator, a task
// registry and state machine, a runtime-balancing scheduler, a
// single-slot notification mailbox, and a bounded FIFO message queue.
//
// Construct a Kernel with New, create tasks against its Tasks registry,
// and call Start to run the scheduler loop.
package heliogo

import "github.com/ehrlich-b/heliogo/internal/assertutil"

// SetAssertHook installs a hook invoked whenever a kernel package's
// internal precondition check fails (spec §6 "Assertion hook"). Assertions
// never change control flow; the operation that tripped one still applies
// its own nil/false/zero failure return. Passing nil disables the hook.
func SetAssertHook(hook func(file string, line int)) {
	assertutil.SetHook(hook)
}
