package codec

import (
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/stream"
	"github.com/stretchr/testify/require"
)

func group(appType string, pairs ...any) *field.FieldSet {
	fs := message(pairs...)
	fs.SetApplicationType(appType, "")

	return fs
}

func TestGroup_Merged(t *testing.T) {
	a, b, c := mandatory("A"), mandatory("B"), mandatory("C")
	seg := NewSegmentBody().
		Add(NewInteger(format.TypeUInt32, a, WithOp(Copy))).
		Add(NewASCII(b))
	g := NewGroup(mandatory("G"), seg)
	tmpl := NewTemplate(1, "T", "").Add(g).Add(NewInteger(format.TypeInt32, c))
	reg := newTestRegistry(t, tmpl)

	require.Equal(t, 3, tmpl.FieldCount())
	require.Equal(t, 1, seg.PresenceMapBits())
	require.Equal(t, 1, tmpl.PresenceMapBits())

	data := roundTrip(t, reg, 1,
		message(a, field.NewUInt32(1), b, field.NewASCII("x"), c, field.NewInt32(-1)),
		message(a, field.NewUInt32(1), b, field.NewASCII("y"), c, field.NewInt32(2)),
	)
	require.Equal(t, []byte{
		0xC0, 0x81, 0xC0, 0x81, 0xF8, 0xFF,
		0x80, 0x80, 0xF9, 0x82,
	}, data)
}

func TestGroup_Nested(t *testing.T) {
	sym, px := mandatory("Symbol"), mandatory("Px")
	seg := NewSegmentBody().
		SetApplicationType("Instrument", "").
		Add(NewASCII(sym, WithOp(Copy)))
	tmpl := NewTemplate(1, "T", "").
		Add(NewGroup(optional("Instrument"), seg)).
		Add(NewDecimal(px))
	reg := newTestRegistry(t, tmpl)

	require.Equal(t, 2, tmpl.FieldCount())
	require.Equal(t, 2, tmpl.PresenceMapBits())

	inst := optional("Instrument")
	roundTrip(t, reg, 1,
		message(inst, field.NewGroup(group("Instrument", sym, field.NewASCII("ESZ5"))), px, dec(5, 0)),
		message(px, dec(6, 0)),
		message(inst, field.NewGroup(group("Instrument", sym, field.NewASCII("ESZ5"))), px, dec(7, 0)),
	)
}

func TestGroup_OptionalMerged(t *testing.T) {
	a, b := optional("A"), mandatory("B")
	seg := NewSegmentBody().Add(NewInteger(format.TypeUInt32, a)).Add(NewInteger(format.TypeUInt32, b))
	reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewGroup(optional("G"), seg)))

	data := roundTrip(t, reg, 1,
		message(a, field.NewUInt32(1), b, field.NewUInt32(2)),
		message(),
		message(b, field.NewUInt32(3)),
	)
	require.Equal(t, []byte{
		0xE0, 0x81, 0x82, 0x82,
		0x80,
		0xA0, 0x80, 0x83,
	}, data)
}

func TestGroup_MissingMandatory(t *testing.T) {
	seg := NewSegmentBody().SetApplicationType("Inner", "").Add(NewASCII(mandatory("S")))
	reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewGroup(mandatory("G"), seg)))

	enc, err := NewEncoder(reg)
	require.NoError(t, err)
	err = enc.EncodeMessage(stream.NewDestination(), 1, message())
	require.ErrorIs(t, err, errs.ErrEncoding)
	require.Contains(t, err.Error(), "[ERR U09]")
}

func TestGroup_RejectsOperators(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(NewTemplate(1, "T", "").
		Add(NewGroup(mandatory("G"), NewSegmentBody(), WithOp(Copy)))))
	require.ErrorIs(t, reg.Finalize(), errs.ErrTemplateDefinition)

	reg = NewRegistry()
	require.NoError(t, reg.Add(NewTemplate(1, "T", "").Add(NewGroup(mandatory("G"), nil))))
	err := reg.Finalize()
	require.ErrorIs(t, err, errs.ErrTemplateDefinition)
	require.Contains(t, err.Error(), "[ERR U08]")
}

// parties builds the nested sequence fixture: parties, each with entries,
// each carrying a price.
func parties(n, m int, base int64) *field.Sequence {
	party, entries, price := mandatory("PartyID"), mandatory("Entries"), mandatory("Price")

	seq := field.NewSequence(n)
	for i := 0; i < n; i++ {
		inner := field.NewSequence(m)
		for j := 0; j < m; j++ {
			inner.Append(message(price, dec(base+int64(i*m+j), -2)))
		}
		seq.Append(message(party, field.NewASCII(string(rune('A'+i))), entries, field.NewSequenceField(inner)))
	}

	return seq
}

func partiesTemplate(priceOp Op) *Template {
	entrySeg := NewSegmentBody().Add(NewDecimal(mandatory("Price"), WithOp(priceOp)))
	partySeg := NewSegmentBody().
		Add(NewASCII(mandatory("PartyID"), WithOp(Copy))).
		Add(NewSequence(mandatory("Entries"), entrySeg))

	return NewTemplate(7, "Book", "").
		Add(NewInteger(format.TypeUInt32, mandatory("SeqNum"), WithOp(Increment))).
		Add(NewSequence(mandatory("Parties"), partySeg))
}

func TestSequence_Nested(t *testing.T) {
	for _, op := range []Op{Copy, Delta} {
		t.Run(op.String(), func(t *testing.T) {
			tmpl := partiesTemplate(op)
			reg := newTestRegistry(t, tmpl)

			require.Equal(t, 2, tmpl.PresenceMapBits())
			require.Equal(t, 2, tmpl.FieldCount())

			seqNum, ps := mandatory("SeqNum"), mandatory("Parties")
			roundTrip(t, reg, 7,
				message(seqNum, field.NewUInt32(1), ps, field.NewSequenceField(parties(3, 3, 10000))),
				message(seqNum, field.NewUInt32(2), ps, field.NewSequenceField(parties(3, 3, 10000))),
				message(seqNum, field.NewUInt32(3), ps, field.NewSequenceField(parties(3, 3, 10005))),
				message(seqNum, field.NewUInt32(4), ps, field.NewSequenceField(parties(0, 0, 0))),
				message(seqNum, field.NewUInt32(5), ps, field.NewSequenceField(parties(1, 2, 9000))),
			)
		})
	}
}

func TestSequence_NestedCopyElidesRepeats(t *testing.T) {
	reg := newTestRegistry(t, partiesTemplate(Copy))

	price := mandatory("Price")
	entries := field.NewSequence(3)
	for range 3 {
		entries.Append(message(price, dec(10000, -2)))
	}
	party := field.NewSequence(1)
	party.Append(message(mandatory("PartyID"), field.NewASCII("A"), mandatory("Entries"), field.NewSequenceField(entries)))

	data := encodeAll(t, reg, 7,
		message(mandatory("SeqNum"), field.NewUInt32(1), mandatory("Parties"), field.NewSequenceField(party)))

	// Only the first entry carries the price; the other two are a bare
	// presence map with the copy bit clear.
	require.Equal(t, byte(0x80), data[len(data)-1])
	require.Equal(t, byte(0x80), data[len(data)-2])

	decoded := decodeAll(t, reg, data, 1)
	ps, ok := decoded[0].Get("Parties")
	require.True(t, ok)
	seq, err := ps.ToSequence()
	require.NoError(t, err)
	es, ok := seq.At(0).Get("Entries")
	require.True(t, ok)
	got, err := es.ToSequence()
	require.NoError(t, err)
	require.True(t, entries.Equal(got))
}

func TestSequence_Wire(t *testing.T) {
	qty := mandatory("Qty")
	seg := NewSegmentBody().Add(NewInteger(format.TypeUInt32, qty))
	reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewSequence(optional("Fills"), seg)))

	fills := field.NewSequence(2)
	fills.Append(message(qty, field.NewUInt32(5)))
	fills.Append(message(qty, field.NewUInt32(6)))

	data := roundTrip(t, reg, 1,
		message(optional("Fills"), field.NewSequenceField(fills)),
		message(),
	)
	// Optional length 2 is sent as 3; entries have no presence map.
	require.Equal(t, []byte{0xC0, 0x81, 0x83, 0x85, 0x86, 0x80, 0x80}, data)
}

func TestSequence_LengthInstruction(t *testing.T) {
	qty := mandatory("Qty")
	seg := NewSegmentBody()
	length := NewInteger(format.TypeUInt32, mandatory("NoFills"), WithOp(Copy))
	require.NoError(t, seg.SetLengthInstruction(length))
	seg.Add(NewInteger(format.TypeUInt32, qty, WithOp(Copy)))

	seqInstr := NewSequence(mandatory("Fills"), seg)
	tmpl := NewTemplate(1, "T", "").Add(seqInstr)
	reg := newTestRegistry(t, tmpl)

	require.Same(t, length, seqInstr.LengthInstruction())
	require.Equal(t, 1, seqInstr.PresenceMapBits())
	require.Equal(t, 2, tmpl.PresenceMapBits())
	require.Equal(t, 1, seg.PresenceMapBits())

	fills := func(values ...uint32) field.Field {
		seq := field.NewSequence(len(values))
		for _, v := range values {
			seq.Append(message(qty, field.NewUInt32(v)))
		}

		return field.NewSequenceField(seq)
	}
	fs := mandatory("Fills")
	roundTrip(t, reg, 1,
		message(fs, fills(5, 5)),
		message(fs, fills(5, 7)),
		message(fs, fills(7)),
	)
}

func TestSequence_LengthInstructionRules(t *testing.T) {
	seg := NewSegmentBody()
	require.ErrorIs(t, seg.SetLengthInstruction(NewInteger(format.TypeUInt64, mandatory("N"))), errs.ErrTemplateDefinition)

	require.NoError(t, seg.SetLengthInstruction(NewInteger(format.TypeUInt32, mandatory("N"))))
	require.ErrorIs(t, seg.SetLengthInstruction(NewInteger(format.TypeUInt32, mandatory("M"))), errs.ErrTemplateDefinition)

	seg = NewSegmentBody().Add(NewASCII(mandatory("S")))
	require.ErrorIs(t, seg.SetLengthInstruction(NewInteger(format.TypeUInt32, mandatory("N"))), errs.ErrTemplateDefinition)
}

func TestSequence_MissingMandatory(t *testing.T) {
	reg := newTestRegistry(t, NewTemplate(1, "T", "").
		Add(NewSequence(mandatory("S"), NewSegmentBody().Add(NewASCII(mandatory("X"))))))

	enc, err := NewEncoder(reg)
	require.NoError(t, err)
	err = enc.EncodeMessage(stream.NewDestination(), 1, message())
	require.ErrorIs(t, err, errs.ErrEncoding)
	require.Contains(t, err.Error(), "[ERR U01]")
}
