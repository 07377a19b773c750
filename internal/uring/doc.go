// Package uring implements the kernel's tick counter as a free-running
// io_uring timer (spec §5 "Tick counter"): a repeating IORING_OP_TIMEOUT
// submission whose completions a background goroutine counts into an
// atomic, wrapping uint32, satisfying interfaces.TickSource. A
// StubTickSource is also provided for tests and non-Linux builds that want
// manual control over the tick value instead of a real timer.
package uring
