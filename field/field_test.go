package field

import (
	"math"
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/stretchr/testify/require"
)

func TestField_Integers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		typ   format.ValueType
		bits  int64
	}{
		{"int8", NewInt8(math.MinInt8), format.TypeInt8, math.MinInt8},
		{"int16", NewInt16(-300), format.TypeInt16, -300},
		{"int32", NewInt32(math.MaxInt32), format.TypeInt32, math.MaxInt32},
		{"int64", NewInt64(math.MinInt64), format.TypeInt64, math.MinInt64},
		{"uint8", NewUInt8(255), format.TypeUInt8, 255},
		{"uint16", NewUInt16(65535), format.TypeUInt16, 65535},
		{"uint32", NewUInt32(7), format.TypeUInt32, 7},
		{"uint64 max wraps", NewUInt64(math.MaxUint64), format.TypeUInt64, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.typ, tt.field.Type())
			require.True(t, tt.field.IsDefined())

			got, err := tt.field.ToInteger()
			require.NoError(t, err)
			require.Equal(t, tt.bits, got)

			require.True(t, NewInteger(tt.typ, tt.bits).Equal(tt.field))
		})
	}
}

func TestField_Accessors(t *testing.T) {
	v, err := NewInt64(-5).ToInt64()
	require.NoError(t, err)
	require.Equal(t, int64(-5), v)

	u, err := NewUInt64(5).ToUInt64()
	require.NoError(t, err)
	require.Equal(t, uint64(5), u)

	u32, err := NewUInt32(42).ToUInt32()
	require.NoError(t, err)
	require.Equal(t, uint32(42), u32)

	i32, err := NewInt32(-42).ToInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-42), i32)

	s, err := NewASCII("IBM").ToString()
	require.NoError(t, err)
	require.Equal(t, "IBM", s)

	b, err := NewByteVector([]byte{1, 2}).ToBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b)

	d, err := NewDecimalField(NewDecimal(12345, -2)).ToDecimal()
	require.NoError(t, err)
	require.Equal(t, NewDecimal(12345, -2), d)
}

func TestField_Errors(t *testing.T) {
	_, err := Null(format.TypeInt32).ToInt32()
	require.ErrorIs(t, err, errs.ErrFieldNotPresent)

	_, err = NewASCII("x").ToInt64()
	require.ErrorIs(t, err, errs.ErrUnsupportedConversion)

	_, err = NewUInt32(1).ToInt64()
	require.ErrorIs(t, err, errs.ErrUnsupportedConversion)

	_, err = NewInt32(1).ToGroup()
	require.ErrorIs(t, err, errs.ErrUnsupportedConversion)

	_, err = Null(format.TypeSequence).ToSequence()
	require.ErrorIs(t, err, errs.ErrFieldNotPresent)
}

func TestField_Equal(t *testing.T) {
	require.True(t, Null(format.TypeAscii).Equal(Null(format.TypeAscii)))
	require.False(t, Null(format.TypeAscii).Equal(Null(format.TypeUtf8)))
	require.False(t, NewASCII("a").Equal(NewUTF8("a")))
	require.True(t, NewDecimalField(NewDecimal(150, -2)).Equal(NewDecimalField(NewDecimal(15, -1))))
	require.False(t, NewInt32(1).Equal(Null(format.TypeInt32)))
}

func TestField_String(t *testing.T) {
	require.Equal(t, "<null>", Null(format.TypeInt8).String())
	require.Equal(t, "-7", NewInt8(-7).String())
	require.Equal(t, "18446744073709551615", NewUInt64(math.MaxUint64).String())
	require.Equal(t, "1.25", NewDecimalField(NewDecimal(125, -2)).String())
	require.Equal(t, "0x01 ff", NewByteVector([]byte{1, 0xFF}).String())
}

func TestIdentity(t *testing.T) {
	a := Identity{LocalName: "MDEntryPx", Namespace: "fix", ID: "270", Mandatory: true}
	require.Equal(t, "fix::MDEntryPx", a.Name())
	require.Equal(t, "Price", NewIdentity("Price", "").Name())

	b := a.Optional()
	require.False(t, b.Mandatory)
	require.True(t, a.Equal(b))

	b.ID = "271"
	require.False(t, a.Equal(b))

	b.ID = ""
	require.True(t, a.Equal(b))
}
