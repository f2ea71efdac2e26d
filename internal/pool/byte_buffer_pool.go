package pool

import (
	"io"
	"sync"
)

// Default sizes of the shared pools.
const (
	SegmentBufferDefaultSize  = 256             // one destination buffer (pmap or field body)
	SegmentBufferMaxThreshold = 1024 * 16       // 16KiB
	BlockBufferDefaultSize    = 1024 * 64       // 64KiB, one capture block
	BlockBufferMaxThreshold   = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a growable byte slice that can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates an empty ByteBuffer with the given capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// PutByte appends one byte.
func (bb *ByteBuffer) PutByte(b byte) {
	bb.B = append(bb.B, b)
}

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow makes room for requiredBytes more bytes without reallocating.
//
// Small buffers (up to four default segments) grow by SegmentBufferDefaultSize;
// larger ones grow by a quarter of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := SegmentBufferDefaultSize
	if cap(bb.B) > 4*SegmentBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	grown := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(grown, bb.B)
	bb.B = grown
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool. Buffers that grew
// beyond maxThreshold are dropped instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with defaultSize capacity.
// A maxThreshold of zero keeps every returned buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	segmentPool = NewByteBufferPool(SegmentBufferDefaultSize, SegmentBufferMaxThreshold)
	blockPool   = NewByteBufferPool(BlockBufferDefaultSize, BlockBufferMaxThreshold)
)

// GetSegmentBuffer retrieves a buffer for one destination segment.
func GetSegmentBuffer() *ByteBuffer {
	return segmentPool.Get()
}

// PutSegmentBuffer returns a segment buffer to the shared pool.
func PutSegmentBuffer(bb *ByteBuffer) {
	segmentPool.Put(bb)
}

// GetBlockBuffer retrieves a buffer for one capture block.
func GetBlockBuffer() *ByteBuffer {
	return blockPool.Get()
}

// PutBlockBuffer returns a block buffer to the shared pool.
func PutBlockBuffer(bb *ByteBuffer) {
	blockPool.Put(bb)
}
