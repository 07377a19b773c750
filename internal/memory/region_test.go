package memory

import (
	"testing"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/stretchr/testify/require"
)

func newTestRegion(t *testing.T, totalBlocks uint32) *Region {
	t.Helper()
	r, err := NewRegion("test", 32, totalBlocks, interfaces.NoOpObserver{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRegionAllocateZeroSize(t *testing.T) {
	r := newTestRegion(t, 16)
	_, err := r.Allocate(0, false)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestRegionAllocateZeroed(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, false)
	require.NoError(t, err)

	payload, err := r.Payload(addr)
	require.NoError(t, err)
	for _, b := range payload {
		require.Equal(t, byte(0), b)
	}

	// corrupt the payload, free, re-allocate and expect zeroed memory again (P4)
	for i := range payload {
		payload[i] = 0xFF
	}
	require.NoError(t, r.Free(addr, false))

	addr2, err := r.Allocate(8, false)
	require.NoError(t, err)
	payload2, err := r.Payload(addr2)
	require.NoError(t, err)
	for _, b := range payload2 {
		require.Equal(t, byte(0), b)
	}
}

func TestRegionCoverage(t *testing.T) {
	r := newTestRegion(t, 32)
	a1, err := r.Allocate(16, false)
	require.NoError(t, err)
	a2, err := r.Allocate(16, false)
	require.NoError(t, err)
	require.NoError(t, r.Free(a1, false))

	// Sum of entry blocks across the chain must equal totalBlocks (P3).
	var offset uint32
	var sum uint32
	for {
		h := r.readHeader(offset)
		sum += h.blocks
		if h.next == noNext {
			break
		}
		offset = h.next
	}
	require.Equal(t, uint32(32), sum)
	require.NoError(t, r.Free(a2, false))
}

func TestRegionCoalescesRightNeighborOnly(t *testing.T) {
	r := newTestRegion(t, 32)
	a1, err := r.Allocate(16, false)
	require.NoError(t, err)
	a2, err := r.Allocate(16, false)
	require.NoError(t, err)

	require.NoError(t, r.Free(a1, false))
	require.NoError(t, r.Free(a2, false))

	// freeing a2 absorbed the free tail to its right, but freeing a2 never
	// merges leftward into the already-free a1, so two free runs remain.
	h := r.readHeader(0)
	require.True(t, h.free)
	require.Equal(t, uint32(2), h.blocks)
	require.Equal(t, uint32(64), h.next)

	right := r.readHeader(h.next)
	require.True(t, right.free)
	require.Equal(t, uint32(30), right.blocks)
	require.Equal(t, noNext, right.next)
}

func TestRegionProtectedIsolation(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, true) // privileged allocation
	require.NoError(t, err)

	// freeing through the unprotected path must be a no-op (P5)
	err = r.Free(addr, false)
	require.ErrorIs(t, err, ErrPrivilege)

	// the entry must still be allocated
	_, err = r.Payload(addr)
	require.NoError(t, err)

	require.NoError(t, r.Free(addr, true))
}

func TestRegionOutOfMemory(t *testing.T) {
	r := newTestRegion(t, 4)
	_, err := r.Allocate(1024, false)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestRegionDoubleFree(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, false)
	require.NoError(t, err)
	require.NoError(t, r.Free(addr, false))
	require.ErrorIs(t, r.Free(addr, false), ErrAlreadyFree)
}

func TestRegionFreeUnknownAddress(t *testing.T) {
	r := newTestRegion(t, 16)
	require.ErrorIs(t, r.Free(Address(9999), false), ErrNotFound)
}

func TestRegionStatsHighWaterMark(t *testing.T) {
	r := newTestRegion(t, 32)
	a1, err := r.Allocate(8, false)
	require.NoError(t, err)
	a2, err := r.Allocate(8, false)
	require.NoError(t, err)
	stats := r.Stats()
	require.Equal(t, uint32(2), stats.EntriesInUse)
	require.Equal(t, uint32(2), stats.HighWaterEntries)

	require.NoError(t, r.Free(a1, false))
	require.NoError(t, r.Free(a2, false))
	stats = r.Stats()
	require.Equal(t, uint32(0), stats.EntriesInUse)
	require.Equal(t, uint32(2), stats.HighWaterEntries, "high-water mark must not decrease")
}

func TestRegionFreeOnCorruptRegion(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, false)
	require.NoError(t, err)

	// corrupt the chain directly: a zero-length run fails checkIntegrity
	// before findEntryByPayload ever walks it.
	h := r.readHeader(0)
	h.blocks = 0
	r.writeHeader(0, h)

	require.ErrorIs(t, r.Free(addr, false), ErrCorrupt)
}

func TestRegionPayloadOnCorruptRegion(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, false)
	require.NoError(t, err)

	h := r.readHeader(0)
	h.blocks = 0
	r.writeHeader(0, h)

	_, err = r.Payload(addr)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestRegionFreeOnCyclicChainDoesNotHang(t *testing.T) {
	r := newTestRegion(t, 16)
	addr, err := r.Allocate(8, false)
	require.NoError(t, err)

	// point the entry's next back at itself instead of noNext: an unbounded
	// findEntryByPayload walk would spin forever on this, so Free must catch
	// it via checkIntegrity before ever reaching that walk.
	h := r.readHeader(0)
	h.next = 0
	r.writeHeader(0, h)

	require.ErrorIs(t, r.Free(addr, false), ErrCorrupt)
}

func TestRegionFirstFit(t *testing.T) {
	r := newTestRegion(t, 64)
	a1, _ := r.Allocate(8, false)
	a2, _ := r.Allocate(8, false)
	a3, _ := r.Allocate(8, false)

	require.NoError(t, r.Free(a1, false))
	require.NoError(t, r.Free(a2, false))

	// A small allocation must land in the first (a1's) free run, not a2's.
	a4, err := r.Allocate(8, false)
	require.NoError(t, err)
	require.Equal(t, a1, a4)
	require.NoError(t, r.Free(a3, false))
	require.NoError(t, r.Free(a4, false))
}
