package frame

import "sync"

// BufferPool is a fixed-shape pool of reusable []float64 scratch buffers.
// It addresses DSP working memory (FFT scratch, filter histories) — a
// concern unrelated to Frame's shared-immutable-payload contract. Do not use
// a BufferPool to hold Frame channel data; that would reintroduce mutation
// into what must stay an immutable, reference-counted value.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool whose buffers are all length `size`.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				buf := make([]float64, size)
				return &buf
			},
		},
	}
}

// Handle is a borrowed buffer. Call Release when done to return it to the
// pool; failing to do so simply leaks the buffer to the garbage collector,
// it does not corrupt the pool.
type Handle struct {
	buf  []float64
	pool *BufferPool
}

// Acquire pops a buffer from the pool, allocating a fresh one if the pool is
// empty. The returned slice has length equal to the pool's configured size
// and is all zeros: a fresh buffer starts zeroed, and Release zeroes a
// buffer before returning it to the pool.
func (p *BufferPool) Acquire() *Handle {
	ptr := p.pool.Get().(*[]float64)
	return &Handle{buf: (*ptr)[:p.size], pool: p}
}

// Buf returns the borrowed slice.
func (h *Handle) Buf() []float64 {
	return h.buf
}

// Release clears the buffer's logical length (by zeroing it, since the
// slice always carries the pool's full capacity) and returns it to the
// pool.
func (h *Handle) Release() {
	for i := range h.buf {
		h.buf[i] = 0
	}
	buf := h.buf[:h.pool.size]
	h.pool.pool.Put(&buf)
}
