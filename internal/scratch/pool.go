// Package scratch pools the int32 accumulator buffers used by multipass
// kernels.
package scratch

import "sync"

// Pool provides sync.Pool-based reuse of accumulator buffers.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return new([]int32)
			},
		},
	}
}

// Get returns a buffer with the requested length. Contents are unspecified;
// kernels clear what they use. Callers must return it via Put when done.
func (p *Pool) Get(length int) *[]int32 {
	b := p.pool.Get().(*[]int32)
	if cap(*b) < length {
		*b = make([]int32, length)
	}
	*b = (*b)[:length]
	return b
}

// Put returns a buffer to the pool for reuse.
// The caller must not use the buffer after calling Put.
func (p *Pool) Put(b *[]int32) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}

// RoundUp rounds n up to a multiple of tile.
func RoundUp(n, tile int) int {
	return (n + tile - 1) / tile * tile
}
