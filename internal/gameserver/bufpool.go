package gameserver

import "sync"

// maxPooledFrame is the largest buffer returned to the pool. A burst of big
// frames (long chat, large metadata) must not pin memory afterwards.
const maxPooledFrame = 64 << 10

// BytePool is a pool of reusable frame buffers for the write goroutines.
// Reduces GC pressure on the broadcast path.
type BytePool struct {
	pool sync.Pool
}

// NewBytePool creates a buffer pool with the specified default capacity for new slices.
func NewBytePool(defaultCap int) *BytePool {
	p := &BytePool{}
	p.pool.New = func() any {
		return make([]byte, 0, defaultCap)
	}
	return p
}

// Get returns a zeroed slice of length size, preferably from the pool.
func (p *BytePool) Get(size int) []byte {
	b := p.pool.Get().([]byte)
	if cap(b) < size {
		p.pool.Put(b)
		return make([]byte, size)
	}
	b = b[:size]
	clear(b)
	return b
}

// Put returns the slice to the pool for reuse. Oversized buffers are dropped.
func (p *BytePool) Put(b []byte) {
	if b == nil || cap(b) > maxPooledFrame {
		return
	}
	p.pool.Put(b[:0])
}
