package capture

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/objectcomputing/quickfast/compress"
	"github.com/objectcomputing/quickfast/endian"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/internal/hash"
	"github.com/objectcomputing/quickfast/internal/options"
	"github.com/objectcomputing/quickfast/stream"
)

// Reader iterates over the messages of a capture.
type Reader struct {
	r        io.Reader
	header   Header
	engine   endian.EndianEngine
	codec    compress.Codec
	framer   *stream.Framer
	packed   []byte
	payload  []byte
	blocks   int
	messages uint64
	ctx      context.Context
}

// NewReader reads and validates the capture header.
//
// Returns:
//   - *Reader: The reader, positioned before the first message
//   - error: Header errors, or errs.ErrFingerprint when WithFingerprint was
//     given and the capture was recorded with other templates
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	s := defaultSettings()
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeaderSize, err)
	}
	header, err := ParseHeader(buf[:])
	if err != nil {
		return nil, err
	}
	if s.hasFingerprint && header.Fingerprint != s.fingerprint {
		return nil, fmt.Errorf("%w: capture %016x, templates %016x", errs.ErrFingerprint, header.Fingerprint, s.fingerprint)
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	framer, err := stream.NewFramer(format.HeaderFAST, 0)
	if err != nil {
		return nil, err
	}

	return &Reader{
		r:      r,
		header: header,
		engine: header.Flag.GetEndianEngine(),
		codec:  codec,
		framer: framer,
		ctx:    s.ctx,
	}, nil
}

// Header returns the capture header.
func (r *Reader) Header() Header {
	return r.header
}

// Blocks returns the number of blocks read so far.
func (r *Reader) Blocks() int {
	return r.blocks
}

// Messages returns the number of messages returned so far.
func (r *Reader) Messages() uint64 {
	return r.messages
}

// Next returns the next encoded message. The slice is only valid until the
// following call. At the end of the capture Next returns io.EOF.
func (r *Reader) Next() ([]byte, error) {
	for len(r.payload) == 0 {
		if err := r.readBlock(); err != nil {
			return nil, err
		}
	}

	msg, rest, err := r.framer.NextFrame(r.payload)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", r.blocks-1, err)
	}
	r.payload = rest
	r.messages++

	return msg, nil
}

func (r *Reader) readBlock() error {
	var bh [BlockHeaderSize]byte
	if _, err := io.ReadFull(r.r, bh[:]); err != nil {
		if errors.Is(err, io.EOF) {
			if r.header.BlockCount != 0 && uint32(r.blocks) < r.header.BlockCount { //nolint:gosec
				return fmt.Errorf("%w: read %d of %d blocks", io.ErrUnexpectedEOF, r.blocks, r.header.BlockCount)
			}

			return io.EOF
		}

		return fmt.Errorf("block %d header: %w", r.blocks, err)
	}

	rawSize := int(r.engine.Uint32(bh[0:4]))
	packedSize := int(r.engine.Uint32(bh[4:8]))
	sum := r.engine.Uint64(bh[8:16])
	if rawSize > MaxBlockSize || packedSize > 2*MaxBlockSize {
		return fmt.Errorf("%w: block %d claims %d bytes", errs.ErrInvalidFrame, r.blocks, rawSize)
	}

	ev := blockEvent{
		operation:   "read",
		block:       r.blocks,
		rawSize:     rawSize,
		packedSize:  packedSize,
		compression: r.header.Flag.Compression().String(),
	}

	if cap(r.packed) < packedSize {
		r.packed = make([]byte, packedSize)
	}
	r.packed = r.packed[:packedSize]
	if _, err := io.ReadFull(r.r, r.packed); err != nil {
		err = fmt.Errorf("block %d payload: %w", r.blocks, err)
		emitBlock(r.ctx, ev, err)

		return err
	}

	raw, err := r.codec.Decompress(r.packed)
	if err != nil {
		err = fmt.Errorf("block %d: %w", r.blocks, err)
		emitBlock(r.ctx, ev, err)

		return err
	}
	if len(raw) != rawSize || hash.Sum(raw) != sum {
		err = fmt.Errorf("%w: block %d", errs.ErrChecksumMismatch, r.blocks)
		emitBlock(r.ctx, ev, err)

		return err
	}
	emitBlock(r.ctx, ev, nil)

	r.payload = raw
	r.blocks++

	return nil
}
