package encoding

import (
	"math"
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/stretchr/testify/require"
)

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) NextByte() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++

	return b, true
}

func (r *sliceReader) remaining() int { return len(r.data) - r.pos }

type sliceWriter struct {
	data []byte
}

func (w *sliceWriter) PutByte(b byte) { w.data = append(w.data, b) }

func TestAppendUnsigned(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  []byte
	}{
		{"zero", 0, []byte{0x80}},
		{"one group max", 127, []byte{0xFF}},
		{"two groups", 128, []byte{0x01, 0x80}},
		{"three hundred", 300, []byte{0x02, 0xAC}},
		{"max uint32", math.MaxUint32, []byte{0x0F, 0x7F, 0x7F, 0x7F, 0xFF}},
		{"max uint64", math.MaxUint64, []byte{0x01, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendUnsigned(nil, tt.value)
			require.Equal(t, tt.want, got)
			require.Equal(t, len(tt.want), UnsignedSize(tt.value))

			w := &sliceWriter{}
			PutUnsigned(w, tt.value)
			require.Equal(t, tt.want, w.data)
		})
	}
}

func TestAppendSigned(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		want  []byte
	}{
		{"zero", 0, []byte{0x80}},
		{"minus one", -1, []byte{0xFF}},
		{"sixty three", 63, []byte{0xBF}},
		{"sixty four needs sign group", 64, []byte{0x00, 0xC0}},
		{"minus sixty four", -64, []byte{0xC0}},
		{"minus sixty five needs sign group", -65, []byte{0x7F, 0xBF}},
		{"positive three groups", 942755, []byte{0x39, 0x45, 0xA3}},
		{"negative three groups", -942755, []byte{0x46, 0x3A, 0xDD}},
		{"max int64", math.MaxInt64, []byte{0x00, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF}},
		{"min int64", math.MinInt64, []byte{0x7F, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, AppendSigned(nil, tt.value))

			r := &sliceReader{data: tt.want}
			got, flags, err := DecodeSigned(r, 64, false)
			require.NoError(t, err)
			require.Equal(t, tt.value, got)
			require.False(t, flags.Overflow())
			require.False(t, flags.Overlong())
			require.Zero(t, r.remaining())
		})
	}
}

func TestNullableEncoding(t *testing.T) {
	require.Equal(t, []byte{ZeroNullable}, AppendNullableUnsigned(nil, 0))
	require.Equal(t, []byte{ZeroNullable}, AppendNullableSigned(nil, 0))
	require.Equal(t, []byte{0xFF}, AppendNullableSigned(nil, -1))
	require.Equal(t, []byte{NullByte}, AppendNull(nil))

	w := &sliceWriter{}
	PutNull(w)
	PutNullableUnsigned(w, 5)
	PutNullableSigned(w, -5)
	require.Equal(t, []byte{0x80, 0x86, 0xFB}, w.data)

	r := &sliceReader{data: w.data}
	_, null, _, err := DecodeNullableUnsigned(r, 32)
	require.NoError(t, err)
	require.True(t, null)

	u, null, _, err := DecodeNullableUnsigned(r, 32)
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, uint64(5), u)

	s, null, _, err := DecodeNullableSigned(r, 32, false)
	require.NoError(t, err)
	require.False(t, null)
	require.Equal(t, int64(-5), s)
}

func TestUnsignedRoundTrip(t *testing.T) {
	widths := []struct {
		bits int
		max  uint64
	}{
		{8, math.MaxUint8},
		{16, math.MaxUint16},
		{32, math.MaxUint32},
		{64, math.MaxUint64},
	}

	for _, w := range widths {
		for _, v := range []uint64{0, 1, 127, 128, w.max - 1, w.max} {
			r := &sliceReader{data: AppendUnsigned(nil, v)}
			got, flags, err := DecodeUnsigned(r, w.bits)
			require.NoError(t, err)
			require.Equal(t, v, got, "bits=%d value=%d", w.bits, v)
			require.False(t, flags.Overflow(), "bits=%d value=%d", w.bits, v)

			r = &sliceReader{data: AppendNullableUnsigned(nil, v)}
			got, null, flags, err := DecodeNullableUnsigned(r, w.bits)
			require.NoError(t, err)
			require.False(t, null)
			require.Equal(t, v, got, "nullable bits=%d value=%d", w.bits, v)
			require.False(t, flags.Overflow(), "nullable bits=%d value=%d", w.bits, v)
		}
	}
}

func TestSignedRoundTrip(t *testing.T) {
	widths := []struct {
		bits     int
		min, max int64
	}{
		{8, math.MinInt8, math.MaxInt8},
		{16, math.MinInt16, math.MaxInt16},
		{32, math.MinInt32, math.MaxInt32},
		{64, math.MinInt64, math.MaxInt64},
	}

	for _, w := range widths {
		for _, v := range []int64{w.min, w.min + 1, -64, -1, 0, 1, 63, 64, w.max - 1, w.max} {
			r := &sliceReader{data: AppendSigned(nil, v)}
			got, flags, err := DecodeSigned(r, w.bits, false)
			require.NoError(t, err)
			require.Equal(t, v, got, "bits=%d value=%d", w.bits, v)
			require.False(t, flags.Overflow(), "bits=%d value=%d", w.bits, v)

			r = &sliceReader{data: AppendNullableSigned(nil, v)}
			got, null, flags, err := DecodeNullableSigned(r, w.bits, false)
			require.NoError(t, err)
			require.False(t, null)
			require.Equal(t, v, got, "nullable bits=%d value=%d", w.bits, v)
			require.False(t, flags.Overflow(), "nullable bits=%d value=%d", w.bits, v)
		}
	}
}

func TestDecodeOverflow(t *testing.T) {
	t.Run("unsigned truncates", func(t *testing.T) {
		r := &sliceReader{data: []byte{0x02, 0xAC}} // 300
		got, flags, err := DecodeUnsigned(r, 8)
		require.NoError(t, err)
		require.True(t, flags.Overflow())
		require.Equal(t, uint64(300&0xFF), got)
	})

	t.Run("signed truncates with wraparound", func(t *testing.T) {
		r := &sliceReader{data: []byte{0x01, 0xC8}} // 200
		got, flags, err := DecodeSigned(r, 8, false)
		require.NoError(t, err)
		require.True(t, flags.Overflow())
		require.Equal(t, int64(-56), got)
	})

	t.Run("oversize accepts one extra bit", func(t *testing.T) {
		delta := int64(math.MaxUint32) // the widest delta between two uint32 values
		r := &sliceReader{data: AppendSigned(nil, delta)}
		got, flags, err := DecodeSigned(r, 32, true)
		require.NoError(t, err)
		require.False(t, flags.Overflow())
		require.Equal(t, delta, got)
	})

	t.Run("eleven byte unsigned", func(t *testing.T) {
		data := []byte{0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0x7F, 0xFF}
		_, flags, err := DecodeUnsigned(&sliceReader{data: data}, 64)
		require.NoError(t, err)
		require.True(t, flags.Overflow())
	})
}

func TestDecodeOverlong(t *testing.T) {
	got, flags, err := DecodeUnsigned(&sliceReader{data: []byte{0x00, 0x81}}, 32)
	require.NoError(t, err)
	require.True(t, flags.Overlong())
	require.Equal(t, uint64(1), got)

	s, flags, err := DecodeSigned(&sliceReader{data: []byte{0x00, 0x81}}, 32, false)
	require.NoError(t, err)
	require.True(t, flags.Overlong())
	require.Equal(t, int64(1), s)

	s, flags, err = DecodeSigned(&sliceReader{data: []byte{0x7F, 0xC0}}, 32, false)
	require.NoError(t, err)
	require.True(t, flags.Overlong())
	require.Equal(t, int64(-64), s)

	// 0x00 0xC0 is the minimal encoding of 64
	_, flags, err = DecodeSigned(&sliceReader{data: []byte{0x00, 0xC0}}, 32, false)
	require.NoError(t, err)
	require.False(t, flags.Overlong())
}

func TestDecodeEOF(t *testing.T) {
	_, _, err := DecodeUnsigned(&sliceReader{data: []byte{0x02}}, 32)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

	_, _, err = DecodeSigned(&sliceReader{}, 32, false)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)

	_, _, _, err = DecodeNullableSigned(&sliceReader{data: []byte{0x01, 0x01}}, 64, true)
	require.ErrorIs(t, err, errs.ErrUnexpectedEOF)
}
