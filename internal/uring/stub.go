package uring

import "sync/atomic"

// StubTickSource is a manually-advanced interfaces.TickSource, the
// equivalent of the reference kernel's test harness tick injection: test
// code calls Advance to move time forward by an exact number of ticks
// instead of waiting on a real timer.
type StubTickSource struct {
	ticks atomic.Uint32
	intc  tickGuard
}

// NewStubTickSource returns a StubTickSource starting at tick 0.
func NewStubTickSource() *StubTickSource {
	return &StubTickSource{}
}

// Now implements interfaces.TickSource.
func (s *StubTickSource) Now() uint32 {
	return s.ticks.Load()
}

// Advance moves the tick counter forward by n, wrapping on uint32 overflow
// the same way the hardware counter spec §5 describes wraps.
func (s *StubTickSource) Advance(n uint32) uint32 {
	s.intc.Disable()
	defer s.intc.Enable()
	return s.ticks.Add(n)
}

// Set pins the tick counter to an exact value, for tests that need to
// engineer a wrap boundary.
func (s *StubTickSource) Set(v uint32) {
	s.intc.Disable()
	defer s.intc.Enable()
	s.ticks.Store(v)
}
