package stream

import (
	"fmt"
	"io"

	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/internal/pool"
)

// BufferHandle identifies one buffer of a Destination.
type BufferHandle int

// NoBuffer is the handle reported before any buffer was started.
const NoBuffer BufferHandle = -1

// Destination collects encoded bytes in an ordered set of buffers that may be
// filled out of order. Buffers come from a shared pool and go back on Release.
type Destination struct {
	buffers  []*pool.ByteBuffer
	current  BufferHandle
	messages []int
}

var _ encoding.ByteWriter = (*Destination)(nil)

// NewDestination creates an empty destination.
func NewDestination() *Destination {
	return &Destination{current: NoBuffer}
}

// StartBuffer appends a new empty buffer, selects it and returns its handle.
func (d *Destination) StartBuffer() BufferHandle {
	d.buffers = append(d.buffers, pool.GetSegmentBuffer())
	d.current = BufferHandle(len(d.buffers) - 1)

	return d.current
}

// SelectBuffer directs subsequent writes to a previously started buffer.
func (d *Destination) SelectBuffer(h BufferHandle) error {
	if h < 0 || int(h) >= len(d.buffers) {
		return fmt.Errorf("%w: %d", errs.ErrInvalidBufferHandle, h)
	}
	d.current = h

	return nil
}

// CurrentBuffer returns the selected buffer, or NoBuffer.
func (d *Destination) CurrentBuffer() BufferHandle {
	return d.current
}

// PutByte appends b to the selected buffer, starting one if none exists.
func (d *Destination) PutByte(b byte) {
	if d.current == NoBuffer {
		d.StartBuffer()
	}
	d.buffers[d.current].PutByte(b)
}

// Write appends p to the selected buffer.
func (d *Destination) Write(p []byte) (int, error) {
	if d.current == NoBuffer {
		d.StartBuffer()
	}
	d.buffers[d.current].MustWrite(p)

	return len(p), nil
}

// EndMessage records a message boundary after the buffers started so far.
func (d *Destination) EndMessage() {
	d.messages = append(d.messages, len(d.buffers))
}

// MessageCount returns the number of EndMessage calls since the last reset.
func (d *Destination) MessageCount() int {
	return len(d.messages)
}

// Len returns the total number of bytes held.
func (d *Destination) Len() int {
	n := 0
	for _, b := range d.buffers {
		n += b.Len()
	}

	return n
}

// Bytes returns a contiguous copy of all buffers in creation order.
func (d *Destination) Bytes() []byte {
	return d.AppendTo(make([]byte, 0, d.Len()))
}

// AppendTo appends all buffers in creation order to dst.
func (d *Destination) AppendTo(dst []byte) []byte {
	for _, b := range d.buffers {
		dst = append(dst, b.B...)
	}

	return dst
}

// Message returns a contiguous copy of message i, as delimited by EndMessage.
func (d *Destination) Message(i int) ([]byte, bool) {
	if i < 0 || i >= len(d.messages) {
		return nil, false
	}
	first := 0
	if i > 0 {
		first = d.messages[i-1]
	}

	var out []byte
	for _, b := range d.buffers[first:d.messages[i]] {
		out = append(out, b.B...)
	}

	return out, true
}

// Segments returns the non-empty buffers in creation order for scatter/gather
// output. The slices alias internal storage and are valid until Reset or Release.
func (d *Destination) Segments() [][]byte {
	segs := make([][]byte, 0, len(d.buffers))
	for _, b := range d.buffers {
		if b.Len() > 0 {
			segs = append(segs, b.B)
		}
	}

	return segs
}

// WriteTo writes all buffers to w in creation order.
func (d *Destination) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range d.buffers {
		n, err := b.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// Reset discards the contents and returns the buffers to the pool. The
// destination stays usable.
func (d *Destination) Reset() {
	for _, b := range d.buffers {
		pool.PutSegmentBuffer(b)
	}
	clear(d.buffers)
	d.buffers = d.buffers[:0]
	d.messages = d.messages[:0]
	d.current = NoBuffer
}

// Release returns every buffer to the pool. Slices obtained from Segments
// must not be used afterwards.
func (d *Destination) Release() {
	d.Reset()
	d.buffers = nil
	d.messages = nil
}
