package codec

import (
	"testing"

	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/stream"
	"github.com/stretchr/testify/require"
)

func mandatory(name string) field.Identity {
	return field.NewIdentity(name, "")
}

func optional(name string) field.Identity {
	return field.Identity{LocalName: name}
}

func newTestRegistry(t *testing.T, templates ...*Template) *Registry {
	t.Helper()

	reg := NewRegistry()
	for _, tmpl := range templates {
		require.NoError(t, reg.Add(tmpl))
	}
	require.NoError(t, reg.Finalize())

	return reg
}

// message builds a field set from alternating identity/value pairs.
func message(pairs ...any) *field.FieldSet {
	fs := field.NewFieldSet(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		fs.Add(pairs[i].(field.Identity), pairs[i+1].(field.Field))
	}

	return fs
}

func encodeAll(t *testing.T, reg *Registry, templateID uint32, msgs ...*field.FieldSet) []byte {
	t.Helper()

	enc, err := NewEncoder(reg)
	require.NoError(t, err)
	dst := stream.NewDestination()
	defer dst.Release()

	for _, msg := range msgs {
		require.NoError(t, enc.EncodeMessage(dst, templateID, msg))
	}
	require.Equal(t, len(msgs), dst.MessageCount())

	return dst.Bytes()
}

func decodeAll(t *testing.T, reg *Registry, data []byte, count int, opts ...Option) []*field.FieldSet {
	t.Helper()

	dec, err := NewDecoder(reg, opts...)
	require.NoError(t, err)
	src := stream.NewBufferSource(data)

	out := make([]*field.FieldSet, 0, count)
	for i := 0; i < count; i++ {
		fs := field.NewFieldSet(reg.MaxFieldCount())
		require.NoError(t, dec.DecodeMessage(src, fs), "message %d", i)
		out = append(out, fs)
	}
	require.Equal(t, 0, src.Remaining(), "trailing bytes")

	return out
}

// roundTrip encodes msgs with one encoder, decodes them with a fresh decoder
// and checks every message survives unchanged. It returns the wire bytes.
func roundTrip(t *testing.T, reg *Registry, templateID uint32, msgs ...*field.FieldSet) []byte {
	t.Helper()

	data := encodeAll(t, reg, templateID, msgs...)
	decoded := decodeAll(t, reg, data, len(msgs))
	for i, msg := range msgs {
		require.True(t, msg.Equal(decoded[i]), "message %d: want %s, got %s", i, field.FormatString(msg), field.FormatString(decoded[i]))
	}

	return data
}
