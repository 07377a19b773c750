package mq

import "sync"

// bufferPool recycles fixed-width staging buffers used to shuttle a
// message's value bytes into the user heap, the same idiom as the teacher's
// BufferPool (internal/queue/pool.go) but sized to one width bucket instead
// of the teacher's four I/O-buffer-size classes — a queue message here is
// at most MessageValueBytes long, so one bucket covers every caller.
type bufferPool struct {
	pool  sync.Pool
	width int
}

func newBufferPool(width int) *bufferPool {
	return &bufferPool{
		width: width,
		pool: sync.Pool{
			New: func() any { return make([]byte, width) },
		},
	}
}

func (p *bufferPool) Get() []byte {
	return p.pool.Get().([]byte)
}

func (p *bufferPool) Put(buf []byte) {
	if len(buf) != p.width {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	p.pool.Put(buf)
}
