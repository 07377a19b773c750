// Package mq implements the bounded FIFO message queue (spec §4.6). Queues
// and their messages live in the user heap; the queue's own bookkeeping gets
// a placeholder allocation there too, the same arena-handle treatment
// internal/task gives descriptors in the kernel heap.
package mq

import "github.com/ehrlich-b/heliogo/internal/memory"

type message struct {
	addr  memory.Address
	bytes uint8
	next  *message
}

// Queue is a bounded, singly-linked FIFO of fixed-width message payloads.
type Queue struct {
	userHeap   *memory.Region
	valueWidth uint32
	pool       *bufferPool

	metaAddr memory.Address
	limit    uint32
	length   uint32
	head     *message
	tail     *message
}

// Create constructs a queue bounded to limit messages. Fails if limit is
// below minimumLimit or the user heap has no room for the queue's
// placeholder entry.
func Create(userHeap *memory.Region, valueWidth, minimumLimit, limit uint32) (*Queue, bool) {
	if limit < minimumLimit {
		return nil, false
	}
	addr, err := userHeap.Allocate(1, false)
	if err != nil {
		return nil, false
	}
	return &Queue{
		userHeap:   userHeap,
		valueWidth: valueWidth,
		pool:       newBufferPool(int(valueWidth)),
		metaAddr:   addr,
		limit:      limit,
	}, true
}

// Delete drops every message, then frees the queue itself.
func (q *Queue) Delete() bool {
	for q.head != nil {
		q.Drop()
	}
	return q.userHeap.Free(q.metaAddr, false) == nil
}

// Send appends a message to the tail. Fails if bytes is zero, exceeds the
// configured value width, value is nil, or the queue is already full.
func (q *Queue) Send(bytes uint8, value []byte) bool {
	if bytes == 0 || uint32(bytes) > q.valueWidth || value == nil {
		return false
	}
	if q.length >= q.limit {
		return false
	}

	addr, err := q.userHeap.Allocate(q.valueWidth, false)
	if err != nil {
		return false
	}
	payload, err := q.userHeap.Payload(addr)
	if err != nil {
		return false
	}

	staging := q.pool.Get()
	copy(staging, value)
	copy(payload, staging[:q.valueWidth])
	q.pool.Put(staging)

	m := &message{addr: addr, bytes: bytes}
	if q.tail == nil {
		q.head = m
		q.tail = m
	} else {
		q.tail.next = m
		q.tail = m
	}
	q.length++
	return true
}

// Peek returns a fresh user-heap snapshot of the head message's payload
// without modifying the queue. The snapshot is a 1-byte bytes-count prefix
// followed by the value; the caller owns it and must Free it.
func (q *Queue) Peek() (memory.Address, bool) {
	if q.head == nil {
		return memory.NoAddress, false
	}
	headPayload, err := q.userHeap.Payload(q.head.addr)
	if err != nil {
		return memory.NoAddress, false
	}

	snapAddr, err := q.userHeap.Allocate(1+q.valueWidth, false)
	if err != nil {
		return memory.NoAddress, false
	}
	snapPayload, err := q.userHeap.Payload(snapAddr)
	if err != nil {
		return memory.NoAddress, false
	}
	snapPayload[0] = q.head.bytes
	copy(snapPayload[1:], headPayload)
	return snapAddr, true
}

// ReadSnapshot decodes a Peek/Receive result back into (bytes, value).
func (q *Queue) ReadSnapshot(addr memory.Address) (uint8, []byte, bool) {
	payload, err := q.userHeap.Payload(addr)
	if err != nil || len(payload) == 0 {
		return 0, nil, false
	}
	return payload[0], payload[1:], true
}

// Drop removes the head message, freeing its heap entry. Returns false if
// the queue is empty.
func (q *Queue) Drop() bool {
	if q.head == nil {
		return false
	}
	m := q.head
	q.head = m.next
	if q.head == nil {
		q.tail = nil
	}
	q.length--
	return q.userHeap.Free(m.addr, false) == nil
}

// Receive is Peek followed by Drop.
func (q *Queue) Receive() (memory.Address, bool) {
	addr, ok := q.Peek()
	if !ok {
		return memory.NoAddress, false
	}
	q.Drop()
	return addr, true
}

// countAndVerify walks the chain, returning the observed count and whether
// it matches q.length (spec §4.6: a mismatch is evidence of upstream heap
// corruption, and queries must report failure rather than trust length).
func (q *Queue) countAndVerify() (uint32, bool) {
	var count uint32
	for m := q.head; m != nil; m = m.next {
		count++
	}
	return count, count == q.length
}

// IsEmpty reports whether the queue holds zero messages. Returns false if
// the chain and length disagree.
func (q *Queue) IsEmpty() bool {
	count, ok := q.countAndVerify()
	return ok && count == 0
}

// IsFull reports whether the queue is at its limit.
func (q *Queue) IsFull() bool {
	count, ok := q.countAndVerify()
	return ok && count >= q.limit
}

// MessagesWaiting returns the number of queued messages, or zero if the
// chain and length disagree.
func (q *Queue) MessagesWaiting() uint32 {
	count, ok := q.countAndVerify()
	if !ok {
		return 0
	}
	return count
}

// GetLength returns the queue's tracked length, or zero on a detected
// length/chain mismatch.
func (q *Queue) GetLength() uint32 {
	count, ok := q.countAndVerify()
	if !ok {
		return 0
	}
	return count
}
