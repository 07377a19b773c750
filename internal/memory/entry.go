package memory

import "encoding/binary"

// entryHeaderSize is the wire size of an entry descriptor: free(4) +
// protected(4) + blocks(4) + next(4), little-endian, laid out the same way
// the teacher's uapi package hand-marshals fixed kernel structs rather than
// relying on unsafe struct overlays, so the region's backing byte slice
// (mmap'd on Linux) never has to satisfy Go's alignment guarantees.
const entryHeaderSize = 16

// noNext is the sentinel "no next entry" block offset, analogous to a nil
// forward link. Any in-region offset is representable in less than this.
const noNext uint32 = 0xFFFFFFFF

// entryHeader is the in-band descriptor that precedes every run of blocks
// in a Region (spec §3 "Memory region").
type entryHeader struct {
	free      bool
	protected bool
	blocks    uint32 // run length in blocks, including the descriptor's own blocks
	next      uint32 // byte offset of the next entry, or noNext
}

func (h entryHeader) marshal(dst []byte) {
	var freeBit, protBit uint32
	if h.free {
		freeBit = 1
	}
	if h.protected {
		protBit = 1
	}
	binary.LittleEndian.PutUint32(dst[0:4], freeBit)
	binary.LittleEndian.PutUint32(dst[4:8], protBit)
	binary.LittleEndian.PutUint32(dst[8:12], h.blocks)
	binary.LittleEndian.PutUint32(dst[12:16], h.next)
}

func unmarshalEntryHeader(src []byte) entryHeader {
	return entryHeader{
		free:      binary.LittleEndian.Uint32(src[0:4]) != 0,
		protected: binary.LittleEndian.Uint32(src[4:8]) != 0,
		blocks:    binary.LittleEndian.Uint32(src[8:12]),
		next:      binary.LittleEndian.Uint32(src[12:16]),
	}
}

// ceilDivU32 computes ceil(a/b) for positive b.
func ceilDivU32(a, b uint32) uint32 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}
