package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/endian"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
)

// Framer delimits consecutive messages in a byte stream.
//
// HeaderNone treats the whole input as one message, HeaderFixed prefixes each
// message with a big-endian length of PrefixSize bytes and HeaderFAST prefixes
// it with a stop-bit encoded unsigned length.
type Framer struct {
	typ        format.HeaderType
	prefixSize int
	engine     endian.EndianEngine
}

// NewFramer creates a framer. prefixSize is only used by HeaderFixed and must
// be 1, 2, 4 or 8.
func NewFramer(typ format.HeaderType, prefixSize int) (*Framer, error) {
	switch typ {
	case format.HeaderNone, format.HeaderFAST:
		prefixSize = 0
	case format.HeaderFixed:
		if prefixSize != 1 && prefixSize != 2 && prefixSize != 4 && prefixSize != 8 {
			return nil, fmt.Errorf("%w: fixed prefix size %d", errs.ErrInvalidFrame, prefixSize)
		}
	default:
		return nil, fmt.Errorf("%w: header type %d", errs.ErrInvalidFrame, typ)
	}

	return &Framer{typ: typ, prefixSize: prefixSize, engine: endian.GetBigEndianEngine()}, nil
}

// Type returns the header type.
func (f *Framer) Type() format.HeaderType {
	return f.typ
}

// AppendFrame appends msg and its header to dst.
func (f *Framer) AppendFrame(dst, msg []byte) ([]byte, error) {
	switch f.typ {
	case format.HeaderFixed:
		var err error
		dst, err = endian.AppendUint(f.engine, dst, f.prefixSize, uint64(len(msg)))
		if err != nil {
			return dst, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
		}
	case format.HeaderFAST:
		dst = encoding.AppendUnsigned(dst, uint64(len(msg)))
	}

	return append(dst, msg...), nil
}

// NextFrame splits the first message off data.
//
// Returns:
//   - msg: The message body, aliasing data
//   - rest: The bytes following the message
//   - err: io.EOF when data is empty, errs.ErrInvalidFrame for a truncated frame
func (f *Framer) NextFrame(data []byte) (msg, rest []byte, err error) {
	if len(data) == 0 {
		return nil, nil, io.EOF
	}

	var size uint64
	switch f.typ {
	case format.HeaderNone:
		return data, nil, nil
	case format.HeaderFixed:
		size, err = endian.Uint(f.engine, data, f.prefixSize)
		if err != nil {
			return nil, data, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
		}
		data = data[f.prefixSize:]
	case format.HeaderFAST:
		src := NewBufferSource(data)
		var flags encoding.Flags
		size, flags, err = encoding.DecodeUnsigned(src, 64)
		if err != nil || flags.Overflow() {
			return nil, data, fmt.Errorf("%w: bad length prefix", errs.ErrInvalidFrame)
		}
		data = data[src.Offset():]
	}

	if size > uint64(len(data)) {
		return nil, data, fmt.Errorf("%w: frame of %d bytes, %d available", errs.ErrInvalidFrame, size, len(data))
	}

	return data[:size], data[size:], nil
}

// Split returns every message framed in data.
func (f *Framer) Split(data []byte) ([][]byte, error) {
	var msgs [][]byte
	for {
		msg, rest, err := f.NextFrame(data)
		if errors.Is(err, io.EOF) {
			return msgs, nil
		}
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
		data = rest
	}
}
