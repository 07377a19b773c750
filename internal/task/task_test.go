package task

import (
	"testing"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/stretchr/testify/require"
)

// stubTick is a manually advanced interfaces.TickSource, the rapid-dev
// counterpart to a real ring-backed tick source.
type stubTick struct{ now uint32 }

func (s *stubTick) Now() uint32 { return s.now }

func TestDispatchAccumulatesRunTime(t *testing.T) {
	tick := &stubTick{now: 100}
	var ran bool
	d := &Descriptor{
		ID:    1,
		State: Running,
		Callback: func(Handle, any) {
			ran = true
			tick.now += 5
		},
	}

	watchdogTripped, overflowed := d.Dispatch(Handle(1), tick, interfaces.NoOpObserver{})
	require.True(t, ran)
	require.False(t, watchdogTripped)
	require.False(t, overflowed)
	require.Equal(t, uint32(5), d.LastRunTime)
	require.Equal(t, uint32(5), d.TotalRunTime)
}

func TestDispatchTripsWatchdog(t *testing.T) {
	tick := &stubTick{now: 0}
	d := &Descriptor{
		ID:            2,
		State:         Running,
		WDTimerPeriod: 10,
		Callback: func(Handle, any) {
			tick.now += 20 // overruns the watchdog period
		},
	}

	watchdogTripped, _ := d.Dispatch(Handle(2), tick, interfaces.NoOpObserver{})
	require.True(t, watchdogTripped)
	require.Equal(t, Suspended, d.State)
}

func TestDispatchWatchdogDisabledWhenZero(t *testing.T) {
	tick := &stubTick{now: 0}
	d := &Descriptor{
		ID:    3,
		State: Running,
		Callback: func(Handle, any) {
			tick.now += 1000
		},
	}

	d.Dispatch(Handle(3), tick, interfaces.NoOpObserver{})
	require.Equal(t, Running, d.State, "watchdog disabled by zero period must never force suspend")
}

func TestDispatchDetectsOverflow(t *testing.T) {
	tick := &stubTick{now: 0}
	d := &Descriptor{
		ID:           4,
		State:        Running,
		TotalRunTime: ^uint32(0) - 2, // near the wrap point
		Callback: func(Handle, any) {
			tick.now += 5
		},
	}

	_, overflowed := d.Dispatch(Handle(4), tick, interfaces.NoOpObserver{})
	require.True(t, overflowed)
	require.Less(t, d.TotalRunTime, ^uint32(0)-2)
}
