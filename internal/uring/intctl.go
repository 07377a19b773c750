package uring

import "sync"

// tickGuard is the InterruptController used to bracket the tick counter
// increment (spec §5 "interrupts disabled around the tick-counter increment
// only"). Go has no user-mode instruction to mask hardware interrupts, so
// this stands in for it the way the reference kernel's disable_interrupts()/
// enable_interrupts() pair brackets a critical section: a single mutex held
// for the shortest possible span, never nested.
type tickGuard struct {
	mu sync.Mutex
}

// Disable implements interfaces.InterruptController.
func (g *tickGuard) Disable() {
	g.mu.Lock()
}

// Enable implements interfaces.InterruptController.
func (g *tickGuard) Enable() {
	g.mu.Unlock()
}
