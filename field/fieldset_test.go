package field

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/stretchr/testify/require"
)

func buildOrder() *FieldSet {
	fs := NewFieldSet(4)
	fs.SetApplicationType("Order", "")
	fs.AddValue(NewIdentity("Symbol", ""), NewASCII("IBM"))
	fs.AddValue(NewIdentity("Qty", ""), NewUInt32(100))

	seq := fs.StartSequence(NewIdentity("Parties", ""), 2)
	for _, id := range []string{"A", "B"} {
		entry := seq.StartEntry("Party", "", 1)
		entry.AddValue(NewIdentity("PartyID", ""), NewASCII(id))
		seq.EndEntry(entry)
	}
	fs.EndSequence(NewIdentity("Parties", ""), seq)

	group := fs.StartGroup(NewIdentity("Instrument", ""), "Instrument", "", 1)
	group.AddValue(NewIdentity("Px", ""), NewDecimalField(NewDecimal(12345, -2)))
	fs.EndGroup(NewIdentity("Instrument", ""), group)

	return fs
}

func TestFieldSet_Builder(t *testing.T) {
	fs := buildOrder()

	require.Equal(t, 4, fs.Len())
	require.Equal(t, "Order", fs.ApplicationType())

	f, ok := fs.Get("Parties")
	require.True(t, ok)
	seq, err := f.ToSequence()
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())
	require.Equal(t, "Party", seq.At(1).ApplicationType())

	party, ok := seq.At(1).Get("PartyID")
	require.True(t, ok)
	require.Equal(t, "B", party.String())

	f, ok = fs.Get("Instrument")
	require.True(t, ok)
	group, err := f.ToGroup()
	require.NoError(t, err)
	require.True(t, group.Has("Px"))

	require.True(t, fs.Equal(buildOrder()))
}

func TestFieldSet_AddReplaces(t *testing.T) {
	fs := NewFieldSet(1)
	fs.Add(NewIdentity("Qty", ""), NewUInt32(1))
	fs.Add(NewIdentity("Qty", ""), NewUInt32(2))

	require.Equal(t, 1, fs.Len())
	f, _ := fs.Get("Qty")
	require.True(t, f.Equal(NewUInt32(2)))

	other := NewFieldSet(1)
	other.Add(NewIdentity("Qty", ""), NewUInt32(1))
	require.False(t, fs.Equal(other))

	fs.Reset()
	require.Equal(t, 0, fs.Len())
	require.False(t, fs.Has("Qty"))
}

func TestFormatString(t *testing.T) {
	fs := buildOrder()
	want := "Symbol=IBM\n" +
		"Qty=100\n" +
		"Parties=[2]\n" +
		"  #0 {\n" +
		"    PartyID=A\n" +
		"  }\n" +
		"  #1 {\n" +
		"    PartyID=B\n" +
		"  }\n" +
		"Instrument={\n" +
		"  Px=123.45\n" +
		"}\n"
	require.Equal(t, want, FormatString(fs))
}

func TestMarshalMsgpack(t *testing.T) {
	fs := buildOrder()

	data, err := msgpack.Marshal(fs)
	require.NoError(t, err)

	again, err := fs.MarshalMsgpack()
	require.NoError(t, err)
	require.Equal(t, data, again)

	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	require.Equal(t, "IBM", decoded["Symbol"])
	require.EqualValues(t, 100, decoded["Qty"])

	inst, ok := decoded["Instrument"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "123.45", inst["Px"])

	parties, ok := decoded["Parties"].([]any)
	require.True(t, ok)
	require.Len(t, parties, 2)
}
