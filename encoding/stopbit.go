package encoding

import (
	"math"

	"github.com/objectcomputing/quickfast/errs"
)

const (
	StopBit   = 0x80 // StopBit marks the final byte of a primitive.
	DataBits  = 0x7F // DataBits masks the 7 payload bits of a byte.
	SignBit   = 0x40 // SignBit is the sign of the most significant group.
	DataShift = 7    // DataShift is the number of payload bits per byte.

	NullByte     = 0x80 // NullByte is the nullable null sentinel.
	ZeroNullable = 0x81 // ZeroNullable is zero as a nullable integer.

	// MaxIntegerBytes is the longest legal encoding of a 64-bit integer.
	MaxIntegerBytes = 10
)

// ByteReader pulls one byte at a time; ok is false at end of data.
type ByteReader interface {
	NextByte() (b byte, ok bool)
}

// ByteWriter receives encoded bytes.
type ByteWriter interface {
	PutByte(b byte)
}

// Flags report recoverable anomalies seen while decoding an integer.
type Flags uint8

const (
	// FlagOverflow is set when the value does not fit the requested width.
	FlagOverflow Flags = 1 << iota
	// FlagOverlong is set when the encoding carries redundant leading groups.
	FlagOverlong
)

// Overflow reports whether FlagOverflow is set.
func (f Flags) Overflow() bool { return f&FlagOverflow != 0 }

// Overlong reports whether FlagOverlong is set.
func (f Flags) Overlong() bool { return f&FlagOverlong != 0 }

// decodeUnsigned accumulates one stop-bit unit. lost is set when groups were
// shifted out of the 64-bit accumulator.
func decodeUnsigned(r ByteReader, limit int) (value uint64, lost bool, flags Flags, err error) {
	b, ok := r.NextByte()
	if !ok {
		return 0, false, 0, errs.ErrUnexpectedEOF
	}
	if b == 0x00 {
		flags |= FlagOverlong
	}

	mask := ^uint64(0) << uint(limit-DataShift) //nolint:gosec
	value = uint64(b & DataBits)
	for b&StopBit == 0 {
		if b, ok = r.NextByte(); !ok {
			return 0, false, 0, errs.ErrUnexpectedEOF
		}
		if value&mask != 0 {
			flags |= FlagOverflow
		}
		if value>>57 != 0 {
			lost = true
		}
		value = value<<DataShift | uint64(b&DataBits)
	}

	return value, lost, flags, nil
}

// decodeSigned accumulates one stop-bit unit as a two's-complement value.
// positive reports the sign carried by the first group.
func decodeSigned(r ByteReader, limit int) (value int64, positive bool, flags Flags, err error) {
	b, ok := r.NextByte()
	if !ok {
		return 0, false, 0, errs.ErrUnexpectedEOF
	}

	positive = b&SignBit == 0
	if !positive {
		value = -1
	}
	value = value<<DataShift | int64(b&DataBits)

	first := b
	shift := uint(limit - 8) //nolint:gosec
	for n := 0; b&StopBit == 0; n++ {
		if b, ok = r.NextByte(); !ok {
			return 0, false, 0, errs.ErrUnexpectedEOF
		}
		if n == 0 {
			if (first == 0x00 && b&SignBit == 0) || (first == DataBits && b&SignBit != 0) {
				flags |= FlagOverlong
			}
		}
		if v := value >> shift; v != 0 && v != -1 {
			flags |= FlagOverflow
		}
		value = value<<DataShift | int64(b&DataBits)
	}

	return value, positive, flags, nil
}

// DecodeUnsigned decodes a mandatory unsigned integer of the given width.
//
// Parameters:
//   - r: Byte source
//   - bits: Target width (8, 16, 32 or 64)
//
// Returns:
//   - uint64: Decoded value, truncated to bits on overflow
//   - Flags: Overflow/overlong indications
//   - error: errs.ErrUnexpectedEOF if the source ends inside the unit
func DecodeUnsigned(r ByteReader, bits int) (uint64, Flags, error) {
	value, _, flags, err := decodeUnsigned(r, bits)
	if err != nil {
		return 0, 0, err
	}

	value, flags = truncateUnsigned(value, bits, flags)

	return value, flags, nil
}

// DecodeNullableUnsigned decodes a nullable unsigned integer of the given width.
// A single 0x80 byte decodes as null.
func DecodeNullableUnsigned(r ByteReader, bits int) (value uint64, null bool, flags Flags, err error) {
	raw, lost, flags, err := decodeUnsigned(r, bits+1)
	if err != nil {
		return 0, false, 0, err
	}
	if raw == 0 && !lost {
		return 0, true, flags, nil
	}
	if lost && (bits != 64 || raw != 0) {
		// only 2^64, the nullable form of MaxUint64, may spill past 64 bits
		flags |= FlagOverflow
	}

	value, flags = truncateUnsigned(raw-1, bits, flags)

	return value, false, flags, nil
}

func truncateUnsigned(value uint64, bits int, flags Flags) (uint64, Flags) {
	if bits < 64 {
		maxValue := uint64(1)<<uint(bits) - 1 //nolint:gosec
		if value > maxValue {
			flags |= FlagOverflow
		}
		value &= maxValue
	}

	return value, flags
}

// DecodeSigned decodes a mandatory signed integer of the given width.
//
// Parameters:
//   - r: Byte source
//   - bits: Target width (8, 16, 32 or 64)
//   - oversize: Accept one extra bit of range; used by delta values, which may
//     span the full difference between two values of the target width
//
// Returns:
//   - int64: Decoded value, truncated to bits on overflow unless oversize is set
//   - Flags: Overflow/overlong indications
//   - error: errs.ErrUnexpectedEOF if the source ends inside the unit
func DecodeSigned(r ByteReader, bits int, oversize bool) (int64, Flags, error) {
	limit := bits
	if oversize {
		limit++
	}
	value, _, flags, err := decodeSigned(r, limit)
	if err != nil {
		return 0, 0, err
	}
	if oversize {
		return value, flags, nil
	}

	value, flags = truncateSigned(value, bits, flags)

	return value, flags, nil
}

// DecodeNullableSigned decodes a nullable signed integer. Non-negative values
// arrive shifted up by one; 0x80 alone is null.
func DecodeNullableSigned(r ByteReader, bits int, oversize bool) (value int64, null bool, flags Flags, err error) {
	limit := bits + 1
	if oversize {
		limit++
	}
	raw, positive, flags, err := decodeSigned(r, limit)
	if err != nil {
		return 0, false, 0, err
	}
	if positive {
		if raw == 0 {
			return 0, true, flags, nil
		}
		raw--
	}
	if oversize {
		return raw, false, flags, nil
	}

	value, flags = truncateSigned(raw, bits, flags)

	return value, false, flags, nil
}

func truncateSigned(value int64, bits int, flags Flags) (int64, Flags) {
	if bits >= 64 {
		return value, flags
	}

	shift := uint(64 - bits) //nolint:gosec
	truncated := value << shift >> shift
	if truncated != value {
		flags |= FlagOverflow
	}

	return truncated, flags
}

// AppendUnsigned appends the stop-bit encoding of v to dst.
func AppendUnsigned(dst []byte, v uint64) []byte {
	var buf [MaxIntegerBytes]byte
	n := 0
	for {
		buf[n] = byte(v & DataBits)
		n++
		v >>= DataShift
		if v == 0 {
			break
		}
	}
	buf[0] |= StopBit

	for i := n - 1; i >= 0; i-- {
		dst = append(dst, buf[i])
	}

	return dst
}

// AppendSigned appends the stop-bit two's-complement encoding of v to dst.
func AppendSigned(dst []byte, v int64) []byte {
	var buf [MaxIntegerBytes]byte
	n := 0

	until, sign := int64(0), byte(0)
	if v < 0 {
		until, sign = -1, SignBit
	}
	prev := ^sign
	for v != until || prev&SignBit != sign {
		prev = byte(v & DataBits)
		buf[n] = prev
		n++
		v >>= DataShift
	}
	buf[0] |= StopBit

	for i := n - 1; i >= 0; i-- {
		dst = append(dst, buf[i])
	}

	return dst
}

// twoPow63 and twoPow64 are the nullable encodings of MaxInt64 and MaxUint64,
// which do not fit in 64 bits after the null shift.
var (
	twoPow63 = []byte{0x01, 0, 0, 0, 0, 0, 0, 0, 0, StopBit}
	twoPow64 = []byte{0x02, 0, 0, 0, 0, 0, 0, 0, 0, StopBit}
)

// AppendNullableUnsigned appends v shifted by one for a nullable field.
func AppendNullableUnsigned(dst []byte, v uint64) []byte {
	if v == math.MaxUint64 {
		return append(dst, twoPow64...)
	}

	return AppendUnsigned(dst, v+1)
}

// AppendNullableSigned appends v, shifting non-negative values by one.
func AppendNullableSigned(dst []byte, v int64) []byte {
	switch {
	case v == math.MaxInt64:
		return append(dst, twoPow63...)
	case v >= 0:
		return AppendSigned(dst, v+1)
	default:
		return AppendSigned(dst, v)
	}
}

// AppendNull appends the nullable null sentinel.
func AppendNull(dst []byte) []byte {
	return append(dst, NullByte)
}

// PutUnsigned writes the stop-bit encoding of v to w.
func PutUnsigned(w ByteWriter, v uint64) {
	var buf [MaxIntegerBytes]byte
	put(w, AppendUnsigned(buf[:0], v))
}

// PutSigned writes the stop-bit two's-complement encoding of v to w.
func PutSigned(w ByteWriter, v int64) {
	var buf [MaxIntegerBytes]byte
	put(w, AppendSigned(buf[:0], v))
}

// PutNullableUnsigned writes v shifted by one for a nullable field.
func PutNullableUnsigned(w ByteWriter, v uint64) {
	var buf [MaxIntegerBytes]byte
	put(w, AppendNullableUnsigned(buf[:0], v))
}

// PutNullableSigned writes v, shifting non-negative values by one.
func PutNullableSigned(w ByteWriter, v int64) {
	var buf [MaxIntegerBytes]byte
	put(w, AppendNullableSigned(buf[:0], v))
}

// PutNull writes the nullable null sentinel.
func PutNull(w ByteWriter) {
	w.PutByte(NullByte)
}

func put(w ByteWriter, data []byte) {
	for _, b := range data {
		w.PutByte(b)
	}
}

// UnsignedSize returns the number of bytes AppendUnsigned produces for v.
func UnsignedSize(v uint64) int {
	n := 1
	for v >>= DataShift; v != 0; v >>= DataShift {
		n++
	}

	return n
}
