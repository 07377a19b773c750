// Package notify implements the per-task, single-slot, overwrite-forbidden
// notification mailbox (spec §4.5).
package notify

import (
	"github.com/ehrlich-b/heliogo/internal/assertutil"
	"github.com/ehrlich-b/heliogo/internal/memory"
	"github.com/ehrlich-b/heliogo/internal/task"
)

// Slot operates the notification mailbox embedded in every task descriptor,
// allocating snapshots handed back to callers from the user heap.
type Slot struct {
	registry   *task.Registry
	userHeap   *memory.Region
	notifWidth uint32
}

// NewSlot constructs a notification facility over registry, allocating
// snapshots from userHeap.
func NewSlot(registry *task.Registry, userHeap *memory.Region, notifWidth uint32) *Slot {
	return &Slot{registry: registry, userHeap: userHeap, notifWidth: notifWidth}
}

// Give copies value into handle's notification slot. Fails if bytes is
// zero, exceeds the configured notification width, the slot is already
// full, or handle is unknown.
func (s *Slot) Give(handle task.Handle, bytes uint8, value []byte) bool {
	if bytes == 0 || uint32(bytes) > s.notifWidth {
		return false
	}
	d, ok := s.registry.Descriptor(handle)
	if !ok {
		return false
	}
	assertutil.Check(d.NotificationBytes == 0)
	if d.NotificationBytes != 0 {
		return false // slot full
	}
	copy(d.NotificationValue, value)
	for i := len(value); i < len(d.NotificationValue); i++ {
		d.NotificationValue[i] = 0
	}
	d.NotificationBytes = bytes
	return true
}

// IsWaiting reports whether handle's slot currently holds a notification.
func (s *Slot) IsWaiting(handle task.Handle) bool {
	d, ok := s.registry.Descriptor(handle)
	if !ok {
		return false
	}
	return d.NotificationBytes > 0
}

// StateClear zeroes handle's slot unconditionally.
func (s *Slot) StateClear(handle task.Handle) bool {
	d, ok := s.registry.Descriptor(handle)
	if !ok {
		return false
	}
	d.NotificationBytes = 0
	for i := range d.NotificationValue {
		d.NotificationValue[i] = 0
	}
	return true
}

// Take removes handle's notification, returning a fresh user-heap address
// holding a one-byte bytes-count prefix followed by the notification value,
// and zeroing the slot. Returns (memory.NoAddress, false) if the slot was
// empty. The caller owns the returned allocation and must Free it through
// the user heap.
func (s *Slot) Take(handle task.Handle) (memory.Address, bool) {
	d, ok := s.registry.Descriptor(handle)
	if !ok || d.NotificationBytes == 0 {
		return memory.NoAddress, false
	}

	addr, err := s.userHeap.Allocate(1+s.notifWidth, false)
	if err != nil {
		return memory.NoAddress, false
	}
	payload, err := s.userHeap.Payload(addr)
	if err != nil {
		return memory.NoAddress, false
	}
	payload[0] = d.NotificationBytes
	copy(payload[1:], d.NotificationValue)

	d.NotificationBytes = 0
	for i := range d.NotificationValue {
		d.NotificationValue[i] = 0
	}
	return addr, true
}

// ReadSnapshot decodes a Take result back into (bytes, value).
func (s *Slot) ReadSnapshot(addr memory.Address) (uint8, []byte, bool) {
	payload, err := s.userHeap.Payload(addr)
	if err != nil || len(payload) == 0 {
		return 0, nil, false
	}
	return payload[0], payload[1:], true
}
