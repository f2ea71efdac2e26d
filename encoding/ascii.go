package encoding

import "github.com/objectcomputing/quickfast/errs"

const (
	// EmptyString is the encoding of a zero-length mandatory ASCII string.
	EmptyString = 0x80
	// LeadingZeroPreamble escapes a string that begins with a NUL character,
	// and marks non-null values of a nullable string.
	LeadingZeroPreamble = 0x00
)

// BulkReader is implemented by sources that can hand out a contiguous run of
// bytes without copying.
type BulkReader interface {
	NextBytes(n int) ([]byte, bool)
}

// DecodeASCII reads one self-delimiting ASCII unit and appends its raw bytes to
// dst with the stop bit removed. Preambles are left in place; use
// TrimMandatoryASCII or TrimNullableASCII to interpret them.
func DecodeASCII(r ByteReader, dst []byte) ([]byte, error) {
	for {
		b, ok := r.NextByte()
		if !ok {
			return dst, errs.ErrUnexpectedEOF
		}
		dst = append(dst, b&DataBits)
		if b&StopBit != 0 {
			return dst, nil
		}
	}
}

// TrimMandatoryASCII strips the leading-zero preamble from a raw mandatory string.
func TrimMandatoryASCII(raw []byte) []byte {
	if len(raw) > 0 && raw[0] == 0 {
		return raw[1:]
	}

	return raw
}

// TrimNullableASCII interprets a raw nullable string: a lone zero byte is null,
// otherwise one preamble byte is removed before the mandatory rules apply.
func TrimNullableASCII(raw []byte) ([]byte, bool) {
	if len(raw) > 0 && raw[0] == 0 {
		raw = raw[1:]
		if len(raw) == 0 {
			return nil, true
		}
	}

	return TrimMandatoryASCII(raw), false
}

// AppendASCII appends s as a mandatory ASCII unit. The caller guarantees every
// byte of s is 7-bit clean.
func AppendASCII(dst []byte, s []byte) []byte {
	if len(s) == 0 {
		return append(dst, EmptyString)
	}
	if s[0] == 0 {
		dst = append(dst, LeadingZeroPreamble)
	}
	dst = append(dst, s[:len(s)-1]...)

	return append(dst, s[len(s)-1]|StopBit)
}

// AppendNullableASCII appends s as a non-null nullable ASCII unit.
func AppendNullableASCII(dst []byte, s []byte) []byte {
	if len(s) == 0 || s[0] == 0 {
		dst = append(dst, LeadingZeroPreamble)
	}

	return AppendASCII(dst, s)
}

// PutASCII writes s as a mandatory ASCII unit.
func PutASCII(w ByteWriter, s []byte) {
	if len(s) == 0 {
		w.PutByte(EmptyString)
		return
	}
	if s[0] == 0 {
		w.PutByte(LeadingZeroPreamble)
	}
	put(w, s[:len(s)-1])
	w.PutByte(s[len(s)-1] | StopBit)
}

// PutNullableASCII writes s as a non-null nullable ASCII unit.
func PutNullableASCII(w ByteWriter, s []byte) {
	if len(s) == 0 || s[0] == 0 {
		w.PutByte(LeadingZeroPreamble)
	}
	PutASCII(w, s)
}

// IsASCII reports whether every byte of s is 7-bit clean.
func IsASCII(s []byte) bool {
	for _, b := range s {
		if b&StopBit != 0 {
			return false
		}
	}

	return true
}

// DecodeBytes reads exactly n raw bytes and appends them to dst.
func DecodeBytes(r ByteReader, n int, dst []byte) ([]byte, error) {
	if br, ok := r.(BulkReader); ok {
		data, ok := br.NextBytes(n)
		if !ok {
			return dst, errs.ErrUnexpectedEOF
		}

		return append(dst, data...), nil
	}

	for i := 0; i < n; i++ {
		b, ok := r.NextByte()
		if !ok {
			return dst, errs.ErrUnexpectedEOF
		}
		dst = append(dst, b)
	}

	return dst, nil
}

// PutBytes writes raw bytes with no framing.
func PutBytes(w ByteWriter, data []byte) {
	put(w, data)
}
