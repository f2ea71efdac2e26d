package capture

import (
	"time"

	"github.com/objectcomputing/quickfast/errs"
)

// Header is the fixed-size section at the start of a capture.
type Header struct {
	Flag Flag // byte offset 0-3
	// Fingerprint identifies the template registry the messages were encoded with.
	Fingerprint uint64 // byte offset 4-11
	// StartTime is when recording began, in Unix microseconds.
	StartTime int64 // byte offset 12-19
	// BlockCount is the number of blocks. Zero when the writer could not seek
	// back to update it; readers then read until end of file.
	BlockCount uint32 // byte offset 20-23
	// MessageCount is the number of messages, with the same caveat.
	MessageCount uint64 // byte offset 24-31
}

// NewHeader creates the header of an empty capture.
func NewHeader(fingerprint uint64, startTime time.Time) *Header {
	return &Header{
		Flag:        NewFlag(),
		Fingerprint: fingerprint,
		StartTime:   startTime.UnixMicro(),
	}
}

// Parse reads the header from exactly HeaderSize bytes.
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber or ErrInvalidHeaderFlags
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Version = data[2]
	h.Flag.CompressionType = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.Fingerprint = engine.Uint64(data[4:12])
	h.StartTime = int64(engine.Uint64(data[12:20])) //nolint:gosec
	h.BlockCount = engine.Uint32(data[20:24])
	h.MessageCount = engine.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Version
	b[3] = h.Flag.CompressionType
	engine.PutUint64(b[4:12], h.Fingerprint)
	engine.PutUint64(b[12:20], uint64(h.StartTime)) //nolint:gosec
	engine.PutUint32(b[20:24], h.BlockCount)
	engine.PutUint64(b[24:32], h.MessageCount)

	return b
}

// StartTimeAsTime returns the recording start time.
func (h *Header) StartTimeAsTime() time.Time {
	return time.UnixMicro(h.StartTime)
}

// ParseHeader parses a Header from the front of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
