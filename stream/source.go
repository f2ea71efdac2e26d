package stream

import "github.com/objectcomputing/quickfast/encoding"

// Source is the byte supplier consumed by the decoder.
type Source interface {
	encoding.ByteReader
	// BeginMessage marks the first byte of a new message.
	BeginMessage()
	// BeginField announces the field about to be decoded.
	BeginField(name string)
}

// BufferSource reads from an in-memory byte slice.
type BufferSource struct {
	data         []byte
	pos          int
	messageStart int
	field        string
	echo         func(field string, offset int)
}

var (
	_ Source              = (*BufferSource)(nil)
	_ encoding.BulkReader = (*BufferSource)(nil)
)

// NewBufferSource creates a source over data. The slice is not copied.
func NewBufferSource(data []byte) *BufferSource {
	return &BufferSource{data: data}
}

// NextByte returns the next byte; ok is false at end of data.
func (s *BufferSource) NextByte() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++

	return b, true
}

// NextBytes returns the next n bytes without copying.
func (s *BufferSource) NextBytes(n int) ([]byte, bool) {
	if n < 0 || s.pos+n > len(s.data) {
		return nil, false
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n

	return b, true
}

// Fill appends data after the unread bytes. Bytes before the current message
// are dropped; the caller's original slice is never written to.
func (s *BufferSource) Fill(data []byte) {
	kept := s.data[s.messageStart:]
	buf := make([]byte, 0, len(kept)+len(data))
	buf = append(buf, kept...)
	s.data = append(buf, data...)
	s.pos -= s.messageStart
	s.messageStart = 0
}

// Reset replaces the contents of the source with data.
func (s *BufferSource) Reset(data []byte) {
	s.data = data
	s.pos = 0
	s.messageStart = 0
	s.field = ""
}

func (s *BufferSource) BeginMessage() {
	s.messageStart = s.pos
}

func (s *BufferSource) BeginField(name string) {
	s.field = name
	if s.echo != nil {
		s.echo(name, s.pos)
	}
}

// SetEcho installs a callback invoked at the start of every field with the
// field name and the offset of its first byte. A nil callback disables echo.
func (s *BufferSource) SetEcho(fn func(field string, offset int)) {
	s.echo = fn
}

// Field returns the name passed to the last BeginField.
func (s *BufferSource) Field() string {
	return s.field
}

// Remaining returns the number of unread bytes.
func (s *BufferSource) Remaining() int {
	return len(s.data) - s.pos
}

// Offset returns the number of bytes consumed so far.
func (s *BufferSource) Offset() int {
	return s.pos
}

// MessageBytes returns the bytes consumed since the last BeginMessage.
func (s *BufferSource) MessageBytes() []byte {
	return s.data[s.messageStart:s.pos]
}
