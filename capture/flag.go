package capture

import (
	"github.com/objectcomputing/quickfast/endian"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
)

// Flag is the packed leading part of the header.
type Flag struct {
	// Options packs the byte order (bit 1) and the magic number (bits 4-15).
	// It is always stored little-endian so it can be read before the byte
	// order is known.
	Options uint16
	// Version is the capture format version.
	Version uint8
	// CompressionType is the block codec.
	CompressionType uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewFlag returns the flag of a little-endian, uncompressed version 1 capture.
func NewFlag() Flag {
	return Flag{
		Options:         MagicCaptureV1Opt,
		Version:         Version1,
		CompressionType: uint8(format.CompressionNone),
	}
}

// IsBigEndian reports whether header fields and block headers are big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithBigEndian selects big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// WithLittleEndian selects little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// GetEndianEngine returns the engine for the selected byte order.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	return endian.Select(f.IsBigEndian())
}

// GetMagicNumber returns the magic number bits.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Compression returns the block codec type.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the block codec type.
func (f *Flag) SetCompression(c format.CompressionType) {
	f.CompressionType = uint8(c)
}

// Validate checks the magic number, reserved bits, version and codec.
func (f Flag) Validate() error {
	if f.GetMagicNumber() != MagicCaptureV1Opt {
		return errs.ErrInvalidMagicNumber
	}
	if f.Options&ReservedBitsMask != 0 || f.Version != Version1 {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validCompressions[f.CompressionType]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
