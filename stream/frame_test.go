package stream

import (
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/stretchr/testify/require"
)

func TestFramer_RoundTrip(t *testing.T) {
	msgs := [][]byte{{0xC0, 0x81}, {}, make([]byte, 200)}

	tests := []struct {
		name       string
		typ        format.HeaderType
		prefixSize int
	}{
		{"fixed 1", format.HeaderFixed, 1},
		{"fixed 2", format.HeaderFixed, 2},
		{"fixed 4", format.HeaderFixed, 4},
		{"fixed 8", format.HeaderFixed, 8},
		{"fast", format.HeaderFAST, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFramer(tt.typ, tt.prefixSize)
			require.NoError(t, err)
			require.Equal(t, tt.typ, f.Type())

			var data []byte
			for _, m := range msgs {
				data, err = f.AppendFrame(data, m)
				require.NoError(t, err)
			}

			got, err := f.Split(data)
			require.NoError(t, err)
			require.Len(t, got, len(msgs))
			for i := range msgs {
				require.Equal(t, len(msgs[i]), len(got[i]))
			}
		})
	}
}

func TestFramer_Layout(t *testing.T) {
	fixed, err := NewFramer(format.HeaderFixed, 4)
	require.NoError(t, err)
	data, err := fixed.AppendFrame(nil, []byte{0xAA, 0xBB})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 2, 0xAA, 0xBB}, data)

	fast, err := NewFramer(format.HeaderFAST, 0)
	require.NoError(t, err)
	data, err = fast.AppendFrame(nil, []byte{0xAA})
	require.NoError(t, err)
	require.Equal(t, []byte{0x81, 0xAA}, data)

	none, err := NewFramer(format.HeaderNone, 0)
	require.NoError(t, err)
	data, err = none.AppendFrame(nil, []byte{0xAA})
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA}, data)
	msg, rest, err := none.NextFrame([]byte{0xAA, 0xBB})
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB}, msg)
	require.Empty(t, rest)
}

func TestFramer_Errors(t *testing.T) {
	_, err := NewFramer(format.HeaderFixed, 3)
	require.ErrorIs(t, err, errs.ErrInvalidFrame)
	_, err = NewFramer(format.HeaderType(99), 0)
	require.ErrorIs(t, err, errs.ErrInvalidFrame)

	one, err := NewFramer(format.HeaderFixed, 1)
	require.NoError(t, err)
	_, err = one.AppendFrame(nil, make([]byte, 300))
	require.ErrorIs(t, err, errs.ErrInvalidFrame)

	_, _, err = one.NextFrame([]byte{0x05, 0x01})
	require.ErrorIs(t, err, errs.ErrInvalidFrame, "frame longer than data")

	four, err := NewFramer(format.HeaderFixed, 4)
	require.NoError(t, err)
	_, _, err = four.NextFrame([]byte{0x00, 0x01})
	require.ErrorIs(t, err, errs.ErrInvalidFrame, "truncated prefix")

	fast, err := NewFramer(format.HeaderFAST, 0)
	require.NoError(t, err)
	_, _, err = fast.NextFrame([]byte{0x01})
	require.ErrorIs(t, err, errs.ErrInvalidFrame, "unterminated length")

	msgs, err := fast.Split([]byte{0x81, 0x01, 0x83})
	require.ErrorIs(t, err, errs.ErrInvalidFrame)
	require.Len(t, msgs, 1)
}
