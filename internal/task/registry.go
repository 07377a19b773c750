package task

import (
	"encoding/binary"

	"github.com/ehrlich-b/heliogo/internal/assertutil"
	"github.com/ehrlich-b/heliogo/internal/interfaces"
	"github.com/ehrlich-b/heliogo/internal/memory"
	"github.com/ehrlich-b/heliogo/internal/sysflags"
)

// Registry is the ordered collection of task descriptors (spec §3 "Task
// registry"): insertion-order iteration, unique id, unique name, and a
// next_id counter incremented before assignment. Descriptor storage is
// arena-style: each descriptor gets a placeholder allocation in the kernel
// heap whose address is its Handle, and the descriptor itself lives in a Go
// map keyed by that handle — the same arena+index substitution spec.md's
// design notes call for in place of the reference kernel's raw pointers.
type Registry struct {
	kernel   *memory.Region
	userHeap *memory.Region
	flags    *sysflags.Flags
	logger   interfaces.Logger

	nameWidth  int
	notifWidth int

	nextID uint32
	order  []Handle
	tasks  map[Handle]*Descriptor
	byName map[string]Handle
	byID   map[uint32]Handle
}

// infoEntrySize is the packed size of one Info record in a GetAllInfo
// snapshot: ID(4) + Name(nameWidth) + State(1).
func (r *Registry) infoEntrySize() int {
	return 4 + r.nameWidth + 1
}

// runtimeStatsEntrySize is the packed size of one RuntimeStats record in a
// GetAllRuntimeStats snapshot: ID(4) + LastRunTime(4) + TotalRunTime(4).
const runtimeStatsEntrySize = 12

// NewRegistry constructs an empty registry backed by kernel for task
// placeholders, allocating get_all_* snapshots from userHeap (spec §4.2 "get
// all queries allocate their result array from the user heap"), gated by
// flags.
func NewRegistry(kernel, userHeap *memory.Region, flags *sysflags.Flags, nameWidth, notifWidth int, logger interfaces.Logger) *Registry {
	return &Registry{
		kernel:     kernel,
		userHeap:   userHeap,
		flags:      flags,
		logger:     logger,
		nameWidth:  nameWidth,
		notifWidth: notifWidth,
		tasks:      make(map[Handle]*Descriptor),
		byName:     make(map[string]Handle),
		byID:       make(map[uint32]Handle),
	}
}

func (r *Registry) padName(name string) []byte {
	out := make([]byte, r.nameWidth)
	copy(out, name)
	return out
}

// CreateTask registers a new task in Suspended state. Fails silently
// (returns NoHandle, false) if the scheduler is running, the name is
// already taken, or the kernel heap has no room for the placeholder entry
// (spec §4.2).
func (r *Registry) CreateTask(name string, callback Callback, param any) (Handle, bool) {
	assertutil.Check(!r.flags.Running())
	if r.flags.Running() {
		return NoHandle, false
	}
	padded := r.padName(name)
	if _, exists := r.byName[string(padded)]; exists {
		return NoHandle, false
	}

	addr, err := r.kernel.Allocate(1, true)
	if err != nil {
		if r.logger != nil {
			r.logger.Debugf("task: create_task %q failed: %v", name, err)
		}
		return NoHandle, false
	}
	handle := Handle(addr)

	r.nextID++
	id := r.nextID

	d := &Descriptor{
		ID:                id,
		Name:              padded,
		State:             Suspended,
		Callback:          callback,
		Param:             param,
		NotificationValue: make([]byte, r.notifWidth),
	}

	r.tasks[handle] = d
	r.byName[string(padded)] = handle
	r.byID[id] = handle
	r.order = append(r.order, handle)

	return handle, true
}

// DeleteTask removes handle from the registry, invalidating it. Fails
// silently if the scheduler is running or handle is unknown.
func (r *Registry) DeleteTask(handle Handle) bool {
	if r.flags.Running() {
		return false
	}
	d, ok := r.tasks[handle]
	if !ok {
		return false
	}

	if err := r.kernel.Free(memory.Address(handle), true); err != nil && r.logger != nil {
		r.logger.Debugf("task: delete_task %d: kernel free failed: %v", d.ID, err)
	}

	delete(r.tasks, handle)
	delete(r.byName, string(d.Name))
	delete(r.byID, d.ID)
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// lookup validates a handle by confirming it is still registered (spec
// §4.2 "every find query validates the handle").
func (r *Registry) lookup(handle Handle) (*Descriptor, bool) {
	d, ok := r.tasks[handle]
	return d, ok
}

// Descriptor returns the live descriptor for handle, for packages (notify,
// mq, sched) that share the single cooperative flow of execution and need
// to read or mutate per-task fields the registry's own API doesn't cover.
func (r *Registry) Descriptor(handle Handle) (*Descriptor, bool) {
	return r.lookup(handle)
}

// GetHandleByName returns the handle registered under name, if any.
func (r *Registry) GetHandleByName(name string) (Handle, bool) {
	padded := r.padName(name)
	h, ok := r.byName[string(padded)]
	return h, ok
}

// GetHandleByID returns the handle registered under id, if any.
func (r *Registry) GetHandleByID(id uint32) (Handle, bool) {
	h, ok := r.byID[id]
	return h, ok
}

// NumberOfTasks returns the live task count.
func (r *Registry) NumberOfTasks() int {
	return len(r.order)
}

// GetState returns handle's current state, or the Error sentinel if handle
// is not registered.
func (r *Registry) GetState(handle Handle) State {
	d, ok := r.lookup(handle)
	if !ok {
		return Error
	}
	return d.State
}

// GetName returns a copy of handle's name bytes.
func (r *Registry) GetName(handle Handle) ([]byte, bool) {
	d, ok := r.lookup(handle)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(d.Name))
	copy(out, d.Name)
	return out, true
}

// GetID returns handle's id.
func (r *Registry) GetID(handle Handle) (uint32, bool) {
	d, ok := r.lookup(handle)
	if !ok {
		return 0, false
	}
	return d.ID, true
}

// GetTaskInfo returns a read-only snapshot of handle's identity and state.
func (r *Registry) GetTaskInfo(handle Handle) (Info, bool) {
	d, ok := r.lookup(handle)
	if !ok {
		return Info{}, false
	}
	return Info{ID: d.ID, Name: append([]byte(nil), d.Name...), State: d.State}, true
}

// GetAllInfo allocates a snapshot of every registered task from the user
// heap, in insertion order (spec §4.2 "get_all_* allocates from user
// heap"), and returns its address alongside the decoded slice for callers
// that stay inside the kernel package boundary. The caller owns the
// returned allocation and must Free it through the user heap; decode it
// again later with DecodeAllInfo.
func (r *Registry) GetAllInfo() (memory.Address, []Info, error) {
	entrySize := r.infoEntrySize()
	addr, err := r.userHeap.Allocate(uint32(4+len(r.order)*entrySize), false)
	if err != nil {
		return memory.NoAddress, nil, err
	}
	payload, err := r.userHeap.Payload(addr)
	if err != nil {
		return memory.NoAddress, nil, err
	}

	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(r.order)))
	out := make([]Info, 0, len(r.order))
	for i, h := range r.order {
		d := r.tasks[h]
		info := Info{ID: d.ID, Name: append([]byte(nil), d.Name...), State: d.State}
		out = append(out, info)

		off := 4 + i*entrySize
		binary.LittleEndian.PutUint32(payload[off:off+4], info.ID)
		copy(payload[off+4:off+4+r.nameWidth], info.Name)
		payload[off+4+r.nameWidth] = byte(info.State)
	}
	return addr, out, nil
}

// DecodeAllInfo decodes a GetAllInfo snapshot back into an Info slice,
// mirroring notify.Slot's ReadSnapshot.
func (r *Registry) DecodeAllInfo(addr memory.Address) ([]Info, bool) {
	payload, err := r.userHeap.Payload(addr)
	if err != nil || len(payload) < 4 {
		return nil, false
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	entrySize := r.infoEntrySize()
	out := make([]Info, 0, count)
	for i := uint32(0); i < count; i++ {
		off := 4 + int(i)*entrySize
		if off+entrySize > len(payload) {
			return nil, false
		}
		name := append([]byte(nil), payload[off+4:off+4+r.nameWidth]...)
		out = append(out, Info{
			ID:    binary.LittleEndian.Uint32(payload[off : off+4]),
			Name:  name,
			State: State(payload[off+4+r.nameWidth]),
		})
	}
	return out, true
}

// GetTaskRuntimeStats returns handle's scheduling history snapshot.
func (r *Registry) GetTaskRuntimeStats(handle Handle) (RuntimeStats, bool) {
	d, ok := r.lookup(handle)
	if !ok {
		return RuntimeStats{}, false
	}
	return RuntimeStats{ID: d.ID, LastRunTime: d.LastRunTime, TotalRunTime: d.TotalRunTime}, true
}

// GetAllRuntimeStats allocates a snapshot of every registered task's
// scheduling history from the user heap, in insertion order (spec §4.2
// "get_all_* allocates from user heap"). The caller owns the returned
// allocation and must Free it through the user heap; decode it again later
// with DecodeAllRuntimeStats.
func (r *Registry) GetAllRuntimeStats() (memory.Address, []RuntimeStats, error) {
	addr, err := r.userHeap.Allocate(uint32(4+len(r.order)*runtimeStatsEntrySize), false)
	if err != nil {
		return memory.NoAddress, nil, err
	}
	payload, err := r.userHeap.Payload(addr)
	if err != nil {
		return memory.NoAddress, nil, err
	}

	binary.LittleEndian.PutUint32(payload[0:4], uint32(len(r.order)))
	out := make([]RuntimeStats, 0, len(r.order))
	for i, h := range r.order {
		d := r.tasks[h]
		stats := RuntimeStats{ID: d.ID, LastRunTime: d.LastRunTime, TotalRunTime: d.TotalRunTime}
		out = append(out, stats)

		off := 4 + i*runtimeStatsEntrySize
		binary.LittleEndian.PutUint32(payload[off:off+4], stats.ID)
		binary.LittleEndian.PutUint32(payload[off+4:off+8], stats.LastRunTime)
		binary.LittleEndian.PutUint32(payload[off+8:off+12], stats.TotalRunTime)
	}
	return addr, out, nil
}

// DecodeAllRuntimeStats decodes a GetAllRuntimeStats snapshot back into a
// RuntimeStats slice, mirroring notify.Slot's ReadSnapshot.
func (r *Registry) DecodeAllRuntimeStats(addr memory.Address) ([]RuntimeStats, bool) {
	payload, err := r.userHeap.Payload(addr)
	if err != nil || len(payload) < 4 {
		return nil, false
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	out := make([]RuntimeStats, 0, count)
	for i := uint32(0); i < count; i++ {
		off := 4 + int(i)*runtimeStatsEntrySize
		if off+runtimeStatsEntrySize > len(payload) {
			return nil, false
		}
		out = append(out, RuntimeStats{
			ID:           binary.LittleEndian.Uint32(payload[off : off+4]),
			LastRunTime:  binary.LittleEndian.Uint32(payload[off+4 : off+8]),
			TotalRunTime: binary.LittleEndian.Uint32(payload[off+8 : off+12]),
		})
	}
	return out, true
}

// Resume transitions handle to Running.
func (r *Registry) Resume(handle Handle) bool {
	d, ok := r.lookup(handle)
	if !ok {
		return false
	}
	d.State = Running
	return true
}

// Suspend transitions handle to Suspended.
func (r *Registry) Suspend(handle Handle) bool {
	d, ok := r.lookup(handle)
	if !ok {
		return false
	}
	d.State = Suspended
	return true
}

// Wait transitions handle to Waiting.
func (r *Registry) Wait(handle Handle) bool {
	d, ok := r.lookup(handle)
	if !ok {
		return false
	}
	d.State = Waiting
	return true
}

// Entry pairs a handle with its descriptor, for callers that need both
// without a second lookup.
type Entry struct {
	Handle     Handle
	Descriptor *Descriptor
}

// Entries returns (handle, descriptor) pairs in insertion order, for the
// scheduler's per-pass walk (spec §4.4). Callers share the single
// cooperative flow of execution and may mutate descriptor fields directly.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, Entry{Handle: h, Descriptor: r.tasks[h]})
	}
	return out
}
