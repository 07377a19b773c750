// Package memory implements the kernel's two-region, fixed-block, first-fit
// allocator (spec §4.1). A Region is a contiguous array of fixed-size blocks;
// every allocation consumes one in-band entry descriptor followed by a
// zeroed payload, both rounded up to a whole number of blocks.
package memory

import (
	"errors"

	"github.com/ehrlich-b/heliogo/internal/assertutil"
	"github.com/ehrlich-b/heliogo/internal/interfaces"
)

// Sentinel errors returned by Region operations. The root package maps these
// onto the public error taxonomy (spec §7) the way the teacher's WrapError
// maps syscall.Errno onto UblkErrorCode.
var (
	ErrInvalidSize  = errors.New("memory: invalid allocation size")
	ErrCorrupt      = errors.New("memory: region integrity check failed")
	ErrOutOfMemory  = errors.New("memory: no fitting free run")
	ErrNotFound     = errors.New("memory: address not in region")
	ErrAlreadyFree  = errors.New("memory: double free")
	ErrPrivilege    = errors.New("memory: protected/privilege mismatch")
)

// Address is a stable handle to an allocation's payload: the byte offset of
// the payload within the region's backing buffer. Reimplementing the
// reference kernel's raw pointers as small indices, per the design notes.
type Address uint32

// NoAddress is the sentinel meaning "no allocation".
const NoAddress Address = 0xFFFFFFFF

// Stats is a point-in-time snapshot of a region's bookkeeping (spec §4.1
// "Memory semantics"), the same shape as the teacher's MetricsSnapshot: a
// plain struct of counters copied out from live state under no lock, since
// the kernel is single-threaded.
type Stats struct {
	SizeBytes        uint32
	UsedBytes         uint32
	EntriesInUse      uint32
	LargestFreeBlocks  uint32
	SmallestFreeBlocks uint32
	HighWaterEntries   uint32
	Corrupt            bool
}

// Region is one fixed-size, block-structured heap.
type Region struct {
	name        string
	buf         []byte
	unmap       func() error
	blockSize   uint32
	totalBlocks uint32
	entryBlocks uint32 // entrySizeInBlocks, constant per region

	corrupt          bool
	highWaterEntries uint32

	observer interfaces.Observer
	logger   interfaces.Logger
}

// NewRegion allocates a region of totalBlocks blocks of blockSize bytes
// each, backed by newBuffer (mmap on Linux, a plain slice elsewhere; see
// mmap_linux.go / mmap_stub.go).
func NewRegion(name string, blockSize, totalBlocks uint32, observer interfaces.Observer, logger interfaces.Logger) (*Region, error) {
	if observer == nil {
		observer = interfaces.NoOpObserver{}
	}
	entryBlocks := ceilDivU32(entryHeaderSize, blockSize)
	if entryBlocks < 1 {
		entryBlocks = 1
	}

	buf, unmap, err := newBuffer(blockSize * totalBlocks)
	if err != nil {
		return nil, err
	}

	r := &Region{
		name:        name,
		buf:         buf,
		unmap:       unmap,
		blockSize:   blockSize,
		totalBlocks: totalBlocks,
		entryBlocks: entryBlocks,
		observer:    observer,
		logger:      logger,
	}

	root := entryHeader{free: true, protected: false, blocks: totalBlocks, next: noNext}
	root.marshal(r.buf[0:entryHeaderSize])

	return r, nil
}

// Close releases the region's backing storage.
func (r *Region) Close() error {
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}

// SizeBytes returns the total capacity of the region in bytes.
func (r *Region) SizeBytes() uint32 {
	return r.blockSize * r.totalBlocks
}

func (r *Region) readHeader(offset uint32) entryHeader {
	return unmarshalEntryHeader(r.buf[offset : offset+entryHeaderSize])
}

func (r *Region) writeHeader(offset uint32, h entryHeader) {
	h.marshal(r.buf[offset : offset+entryHeaderSize])
}

func (r *Region) markCorrupt() {
	r.corrupt = true
	r.observer.ObserveCorrupt(r.name)
	if r.logger != nil {
		r.logger.Printf("region %s: integrity check failed, marked corrupt", r.name)
	}
}

// checkIntegrity walks the entry chain without an address, verifying it
// covers exactly totalBlocks with no gap or overlap (spec §4.1 "Integrity
// check").
func (r *Region) checkIntegrity() bool {
	if r.corrupt {
		return false
	}
	var offset uint32
	var covered uint32
	seen := uint32(0)
	for {
		if offset >= r.totalBlocks*r.blockSize {
			r.markCorrupt()
			return false
		}
		h := r.readHeader(offset)
		if h.blocks == 0 {
			r.markCorrupt()
			return false
		}
		covered += h.blocks
		seen++
		if seen > r.totalBlocks+1 {
			r.markCorrupt()
			return false
		}
		if h.next == noNext {
			break
		}
		expectedNext := offset + h.blocks*r.blockSize
		if h.next != expectedNext || h.next >= r.totalBlocks*r.blockSize {
			r.markCorrupt()
			return false
		}
		offset = h.next
	}
	if covered != r.totalBlocks {
		r.markCorrupt()
		return false
	}
	return true
}

// checkIntegrityWithAddress additionally verifies addr is the payload start
// of some entry in the chain.
func (r *Region) checkIntegrityWithAddress(addr Address) bool {
	if !r.checkIntegrity() {
		return false
	}
	_, _, ok := r.findEntryByPayload(addr)
	return ok
}

func (r *Region) payloadOffset(entryOffset uint32) uint32 {
	return entryOffset + r.entryBlocks*r.blockSize
}

// findEntryByPayload walks the chain looking for the entry whose payload
// starts at addr, returning its offset and header.
func (r *Region) findEntryByPayload(addr Address) (offset uint32, h entryHeader, ok bool) {
	var cur uint32
	for {
		curHeader := r.readHeader(cur)
		if r.payloadOffset(cur) == uint32(addr) {
			return cur, curHeader, true
		}
		if curHeader.next == noNext {
			return 0, entryHeader{}, false
		}
		cur = curHeader.next
	}
}

// Allocate reserves requestSize bytes and returns the address of a
// zero-initialized payload of at least that size. privileged marks the
// allocation protected, mirroring the caller-supplied privileged flag from
// spec §4.1; it is threaded through the call explicitly rather than read
// from hidden global state, so it cannot leak past this one call (spec §5).
func (r *Region) Allocate(requestSize uint32, privileged bool) (Address, error) {
	assertutil.Check(requestSize != 0)
	if requestSize == 0 {
		return NoAddress, ErrInvalidSize
	}
	if r.corrupt {
		return NoAddress, ErrCorrupt
	}
	if !r.checkIntegrity() {
		return NoAddress, ErrCorrupt
	}

	requestedBlocks := r.entryBlocks + ceilDivU32(requestSize, r.blockSize)

	offset := uint32(0)
	for {
		h := r.readHeader(offset)
		if h.free && h.blocks >= requestedBlocks {
			if h.blocks > requestedBlocks {
				remainder := h.blocks - requestedBlocks
				newOffset := offset + requestedBlocks*r.blockSize
				newHeader := entryHeader{free: true, protected: false, blocks: remainder, next: h.next}
				r.writeHeader(newOffset, newHeader)
				h.blocks = requestedBlocks
				h.next = newOffset
			}
			h.free = false
			h.protected = privileged
			r.writeHeader(offset, h)

			payloadStart := r.payloadOffset(offset)
			payloadLen := (h.blocks - r.entryBlocks) * r.blockSize
			for i := uint32(0); i < payloadLen; i++ {
				r.buf[payloadStart+i] = 0
			}

			r.entriesInUseChanged(1)
			r.observer.ObserveAlloc(r.name, requestSize, true)
			return Address(payloadStart), nil
		}
		if h.next == noNext {
			break
		}
		offset = h.next
	}

	r.observer.ObserveAlloc(r.name, requestSize, false)
	return NoAddress, ErrOutOfMemory
}

// Free releases a previously allocated address. privileged is the caller's
// privilege level; a mismatch against the entry's protected bit is a no-op
// (spec §4.1 "Free") that leaves the entry allocated (P5).
func (r *Region) Free(addr Address, privileged bool) error {
	if !r.checkIntegrity() {
		return ErrCorrupt
	}
	offset, h, ok := r.findEntryByPayload(addr)
	if !ok {
		return ErrNotFound
	}
	if h.free {
		return ErrAlreadyFree
	}
	if h.protected != privileged {
		return ErrPrivilege
	}

	h.free = true
	r.writeHeader(offset, h)
	r.entriesInUseChanged(-1)
	r.observer.ObserveFree(r.name, true)

	if h.next != noNext {
		next := r.readHeader(h.next)
		if next.free {
			h.blocks += next.blocks
			h.next = next.next
			r.writeHeader(offset, h)
		}
	}
	return nil
}

// Payload returns a slice over an allocation's payload bytes, sized to the
// full rounded-up run (not the originally requested size — callers that
// need the exact requested length must track it themselves, same as
// xMemGetSize in the reference kernel returns the rounded allocation size).
func (r *Region) Payload(addr Address) ([]byte, error) {
	if !r.checkIntegrity() {
		return nil, ErrCorrupt
	}
	offset, h, ok := r.findEntryByPayload(addr)
	if !ok || h.free {
		return nil, ErrNotFound
	}
	payloadStart := r.payloadOffset(offset)
	payloadLen := (h.blocks - r.entryBlocks) * r.blockSize
	return r.buf[payloadStart : payloadStart+payloadLen], nil
}

// Size returns the rounded allocation size in bytes for addr, running the
// integrity check as required by spec §4.1.
func (r *Region) Size(addr Address) (uint32, error) {
	if !r.checkIntegrityWithAddress(addr) {
		return 0, ErrCorrupt
	}
	offset, h, ok := r.findEntryByPayload(addr)
	if !ok {
		return 0, ErrNotFound
	}
	_ = offset
	return (h.blocks - r.entryBlocks) * r.blockSize, nil
}

func (r *Region) entriesInUseChanged(delta int) {
	if delta > 0 {
		count := r.countInUse()
		if count > r.highWaterEntries {
			r.highWaterEntries = count
		}
	}
}

func (r *Region) countInUse() uint32 {
	var count uint32
	var offset uint32
	for {
		h := r.readHeader(offset)
		if !h.free {
			count++
		}
		if h.next == noNext {
			break
		}
		offset = h.next
	}
	return count
}

// Stats returns a read-only snapshot of the region's bookkeeping, running
// the integrity check as required by spec §4.1.
func (r *Region) Stats() Stats {
	if !r.checkIntegrity() {
		return Stats{SizeBytes: r.SizeBytes(), Corrupt: true}
	}

	var used, inUse uint32
	var largest, smallest uint32
	smallest = ^uint32(0)
	var offset uint32
	for {
		h := r.readHeader(offset)
		if h.free {
			freeBytes := h.blocks * r.blockSize
			if freeBytes > largest {
				largest = freeBytes
			}
			if freeBytes < smallest {
				smallest = freeBytes
			}
		} else {
			inUse++
			used += h.blocks * r.blockSize
		}
		if h.next == noNext {
			break
		}
		offset = h.next
	}
	if smallest == ^uint32(0) {
		smallest = 0
	}

	return Stats{
		SizeBytes:          r.SizeBytes(),
		UsedBytes:          used,
		EntriesInUse:       inUse,
		LargestFreeBlocks:  largest / r.blockSize,
		SmallestFreeBlocks: smallest / r.blockSize,
		HighWaterEntries:   r.highWaterEntries,
		Corrupt:            r.corrupt,
	}
}

// Corrupt reports whether the region has latched the corrupt flag.
func (r *Region) Corrupt() bool {
	return r.corrupt
}
