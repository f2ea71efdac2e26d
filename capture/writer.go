package capture

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/objectcomputing/quickfast/compress"
	"github.com/objectcomputing/quickfast/endian"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/internal/hash"
	"github.com/objectcomputing/quickfast/internal/options"
	"github.com/objectcomputing/quickfast/internal/pool"
	"github.com/objectcomputing/quickfast/stream"
)

// Writer records encoded messages into a capture.
//
// Messages are buffered until the block reaches the configured size and then
// compressed and written as one block. When the underlying writer is an
// io.WriteSeeker, Close rewrites the header with the final block and message
// counts.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w         io.Writer
	header    *Header
	engine    endian.EndianEngine
	codec     compress.Codec
	framer    *stream.Framer
	block     *pool.ByteBuffer
	blockSize int
	pending   int
	ctx       context.Context
	closed    bool
}

// NewWriter writes the capture header to w and returns a Writer for the
// messages that follow.
//
// Parameters:
//   - w: Destination of the capture
//   - fingerprint: Registry.Fingerprint of the templates the messages use
//   - opts: WithCompression, WithBlockSize, WithBigEndian, WithContext
//
// Returns:
//   - *Writer: The writer
//   - error: Option or header write error
func NewWriter(w io.Writer, fingerprint uint64, opts ...Option) (*Writer, error) {
	s := defaultSettings()
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(s.compression, "capture")
	if err != nil {
		return nil, err
	}
	framer, err := stream.NewFramer(format.HeaderFAST, 0)
	if err != nil {
		return nil, err
	}

	header := NewHeader(fingerprint, time.Now())
	header.Flag.SetCompression(s.compression)
	if s.bigEndian {
		header.Flag.WithBigEndian()
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return nil, fmt.Errorf("write capture header: %w", err)
	}

	return &Writer{
		w:         w,
		header:    header,
		engine:    header.Flag.GetEndianEngine(),
		codec:     codec,
		framer:    framer,
		block:     pool.GetBlockBuffer(),
		blockSize: s.blockSize,
		ctx:       s.ctx,
	}, nil
}

// Header returns a copy of the header as it stands.
func (w *Writer) Header() Header {
	return *w.header
}

// WriteMessage appends one encoded message.
func (w *Writer) WriteMessage(msg []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	var err error
	w.block.B, err = w.framer.AppendFrame(w.block.B, msg)
	if err != nil {
		return err
	}
	w.pending++
	w.header.MessageCount++

	if w.block.Len() >= w.blockSize {
		return w.Flush()
	}

	return nil
}

// WriteDestination appends every completed message of dst.
func (w *Writer) WriteDestination(dst *stream.Destination) error {
	for i := 0; i < dst.MessageCount(); i++ {
		msg, _ := dst.Message(i)
		if err := w.WriteMessage(msg); err != nil {
			return err
		}
	}

	return nil
}

// Flush compresses and writes the buffered messages as one block.
func (w *Writer) Flush() error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	if w.pending == 0 {
		return nil
	}

	raw := w.block.Bytes()
	ev := blockEvent{
		operation:   "write",
		block:       int(w.header.BlockCount),
		messages:    w.pending,
		rawSize:     len(raw),
		compression: w.header.Flag.Compression().String(),
	}

	packed, err := w.codec.Compress(raw)
	if err != nil {
		err = fmt.Errorf("compress block %d: %w", w.header.BlockCount, err)
		emitBlock(w.ctx, ev, err)

		return err
	}
	ev.packedSize = len(packed)

	var bh [BlockHeaderSize]byte
	w.engine.PutUint32(bh[0:4], uint32(len(raw)))    //nolint:gosec
	w.engine.PutUint32(bh[4:8], uint32(len(packed))) //nolint:gosec
	w.engine.PutUint64(bh[8:16], hash.Sum(raw))

	if _, err := w.w.Write(bh[:]); err != nil {
		emitBlock(w.ctx, ev, err)
		return fmt.Errorf("write block %d: %w", w.header.BlockCount, err)
	}
	if _, err := w.w.Write(packed); err != nil {
		emitBlock(w.ctx, ev, err)
		return fmt.Errorf("write block %d: %w", w.header.BlockCount, err)
	}
	emitBlock(w.ctx, ev, nil)

	w.header.BlockCount++
	w.block.Reset()
	w.pending = 0

	return nil
}

// Close flushes the last block and, when possible, updates the header. It
// does not close the underlying writer. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	err := w.Flush()
	w.closed = true
	pool.PutBlockBuffer(w.block)
	w.block = nil
	if err != nil {
		return err
	}

	ws, ok := w.w.(io.WriteSeeker)
	if !ok {
		return nil
	}
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewrite capture header: %w", err)
	}
	if _, err := ws.Write(w.header.Bytes()); err != nil {
		return fmt.Errorf("rewrite capture header: %w", err)
	}
	if _, err := ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("rewrite capture header: %w", err)
	}

	return nil
}
