package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueType_Integer(t *testing.T) {
	tests := []struct {
		typ    ValueType
		bits   int
		signed bool
	}{
		{TypeInt8, 8, true},
		{TypeUInt8, 8, false},
		{TypeInt16, 16, true},
		{TypeUInt16, 16, false},
		{TypeInt32, 32, true},
		{TypeUInt32, 32, false},
		{TypeInt64, 64, true},
		{TypeUInt64, 64, false},
		{TypeExponent, 32, true},
		{TypeMantissa, 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			require.True(t, tt.typ.IsInteger())
			require.Equal(t, tt.bits, tt.typ.Bits())
			require.Equal(t, tt.signed, tt.typ.IsSigned())
		})
	}

	require.False(t, TypeAscii.IsInteger())
	require.Equal(t, 0, TypeDecimal.Bits())
	require.Equal(t, "undefined", ValueType(0xFF).String())
}

func TestParseCompressionType(t *testing.T) {
	for _, name := range []string{"none", "zstd", "s2", "lz4"} {
		ct, ok := ParseCompressionType(name)
		require.True(t, ok, name)
		require.NotEqual(t, "Unknown", ct.String())
	}

	_, ok := ParseCompressionType("brotli")
	require.False(t, ok)
}

func TestParseHeaderType(t *testing.T) {
	ht, ok := ParseHeaderType("fast")
	require.True(t, ok)
	require.Equal(t, HeaderFAST, ht)
	require.Equal(t, "FAST", ht.String())

	_, ok = ParseHeaderType("udp")
	require.False(t, ok)
}
