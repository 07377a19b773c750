package notify

import (
	"testing"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/ehrlich-b/heliogo/internal/memory"
	"github.com/ehrlich-b/heliogo/internal/sysflags"
	"github.com/ehrlich-b/heliogo/internal/task"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*Slot, task.Handle) {
	t.Helper()
	kernel, err := memory.NewRegion("kernel", 32, 64, interfaces.NoOpObserver{}, nil)
	require.NoError(t, err)
	user, err := memory.NewRegion("user", 32, 64, interfaces.NoOpObserver{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kernel.Close(); _ = user.Close() })

	reg := task.NewRegistry(kernel, user, &sysflags.Flags{}, 8, 8, nil)
	h, ok := reg.CreateTask("TASK01", func(task.Handle, any) {}, nil)
	require.True(t, ok)

	return NewSlot(reg, user, 8), h
}

func TestGiveTakeRoundTrip(t *testing.T) {
	s, h := newFixture(t)

	ok := s.Give(h, 7, []byte("MESSAGE"))
	require.True(t, ok)
	require.True(t, s.IsWaiting(h))

	addr, ok := s.Take(h)
	require.True(t, ok)
	bytes, value, ok := s.ReadSnapshot(addr)
	require.True(t, ok)
	require.Equal(t, uint8(7), bytes)
	require.Equal(t, "MESSAGE", string(value[:7]))

	require.False(t, s.IsWaiting(h))
}

func TestGiveFailsOnZeroBytes(t *testing.T) {
	s, h := newFixture(t)
	require.False(t, s.Give(h, 0, []byte("x")))
}

func TestGiveFailsWhenOversized(t *testing.T) {
	s, h := newFixture(t)
	require.False(t, s.Give(h, 9, []byte("123456789")))
}

func TestGiveFailsWhenSlotFull(t *testing.T) {
	s, h := newFixture(t)
	require.True(t, s.Give(h, 4, []byte("ABCD")))
	require.False(t, s.Give(h, 4, []byte("WXYZ")))
}

func TestTakeOnEmptySlotReturnsFalse(t *testing.T) {
	s, h := newFixture(t)
	_, ok := s.Take(h)
	require.False(t, ok)
}

func TestSecondTakeReturnsFalse(t *testing.T) {
	s, h := newFixture(t)
	require.True(t, s.Give(h, 3, []byte("abc")))
	_, ok := s.Take(h)
	require.True(t, ok)
	_, ok = s.Take(h)
	require.False(t, ok)
}

func TestStateClearZeroesSlotUnconditionally(t *testing.T) {
	s, h := newFixture(t)
	require.True(t, s.Give(h, 3, []byte("abc")))
	require.True(t, s.StateClear(h))
	require.False(t, s.IsWaiting(h))
}

func TestSlotOperationsOnUnknownHandleFail(t *testing.T) {
	s, _ := newFixture(t)
	unknown := task.NoHandle
	require.False(t, s.Give(unknown, 1, []byte("a")))
	require.False(t, s.IsWaiting(unknown))
	require.False(t, s.StateClear(unknown))
	_, ok := s.Take(unknown)
	require.False(t, ok)
}
