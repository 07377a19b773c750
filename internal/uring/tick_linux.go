//go:build linux

package uring

import (
	"fmt"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pawelgaczynski/giouring"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
)

// TickRing is an interfaces.TickSource backed by a repeating
// IORING_OP_TIMEOUT submission: a background goroutine resubmits the timer
// and counts each completion into an atomic, wrapping uint32, the tick
// counter spec §5 describes as driven by interrupts disabled only around
// the increment itself.
type TickRing struct {
	ring   *giouring.Ring
	ticks  atomic.Uint32
	period time.Duration
	logger interfaces.Logger
	intc   tickGuard

	stop chan struct{}
	done chan struct{}
}

// NewTickRing creates an io_uring instance and starts the background timer
// loop, firing once every period.
func NewTickRing(period time.Duration, logger interfaces.Logger) (*TickRing, error) {
	if period <= 0 {
		return nil, fmt.Errorf("uring: tick period must be positive")
	}

	ring, err := giouring.CreateRing(8)
	if err != nil {
		return nil, fmt.Errorf("uring: create ring: %w", err)
	}

	t := &TickRing{
		ring:   ring,
		period: period,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.loop()
	return t, nil
}

// Now implements interfaces.TickSource.
func (t *TickRing) Now() uint32 {
	return t.ticks.Load()
}

// Close stops the timer loop and tears down the ring.
func (t *TickRing) Close() error {
	close(t.stop)
	<-t.done
	t.ring.QueueExit()
	return nil
}

func (t *TickRing) loop() {
	defer close(t.done)

	ts := syscall.NsecToTimespec(t.period.Nanoseconds())
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		sqe := t.ring.GetSQE()
		if sqe == nil {
			if t.logger != nil {
				t.logger.Debugf("uring: submission queue full, dropping a tick")
			}
			continue
		}
		sqe.PrepareTimeout(&giouring.Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, 0, 0)

		if _, err := t.ring.Submit(); err != nil {
			if t.logger != nil {
				t.logger.Debugf("uring: submit failed: %v", err)
			}
			return
		}

		cqe, err := t.ring.WaitCQE()
		if err != nil {
			if t.logger != nil {
				t.logger.Debugf("uring: wait cqe failed: %v", err)
			}
			return
		}
		t.ring.SeenCQE(cqe)
		t.intc.Disable()
		t.ticks.Add(1)
		t.intc.Enable()
	}
}

var _ interfaces.InterruptController = (*tickGuard)(nil)
