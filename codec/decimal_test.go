package codec

import (
	"testing"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/stream"
	"github.com/stretchr/testify/require"
)

func dec(mantissa int64, exponent int8) field.Field {
	return field.NewDecimalField(field.NewDecimal(mantissa, exponent))
}

func TestDecimal_NopWire(t *testing.T) {
	px := mandatory("Px")
	reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewDecimal(px)))

	data := roundTrip(t, reg, 1, message(px, dec(15, -1)))
	require.Equal(t, []byte{0xC0, 0x81, 0xFF, 0x8F}, data)
}

func TestDecimal_Operators(t *testing.T) {
	tests := []struct {
		name   string
		id     field.Identity
		opts   []InstructionOption
		values []field.Field
	}{
		{"nop optional", optional("Px"), nil,
			[]field.Field{dec(15, -1), field.Null(format.TypeDecimal), dec(-7, 63), dec(1, -63)}},
		{"copy", mandatory("Px"), []InstructionOption{WithOp(Copy)},
			[]field.Field{dec(12345, -2), dec(12345, -2), dec(12350, -2)}},
		{"copy optional", optional("Px"), []InstructionOption{WithOp(Copy), WithInitialValue("1.5")},
			[]field.Field{dec(15, -1), field.Null(format.TypeDecimal), field.Null(format.TypeDecimal), dec(2, 0)}},
		{"default", optional("Px"), []InstructionOption{WithOp(Default), WithInitialValue("100")},
			[]field.Field{dec(1, 2), dec(99, 0), field.Null(format.TypeDecimal)}},
		{"constant", mandatory("Px"), []InstructionOption{WithOp(Constant), WithInitialValue("0.25")},
			[]field.Field{dec(25, -2), dec(25, -2)}},
		{"delta", mandatory("Px"), []InstructionOption{WithOp(Delta)},
			[]field.Field{dec(9425, -2), dec(9450, -2), dec(-1, 5), dec(1<<62, -63)}},
		{"delta optional", optional("Px"), []InstructionOption{WithOp(Delta), WithInitialValue("94.25")},
			[]field.Field{dec(9450, -2), field.Null(format.TypeDecimal), dec(9475, -2)}},
		{"split copy/delta", mandatory("Px"), []InstructionOption{WithExponent(WithOp(Copy)), WithMantissa(WithOp(Delta))},
			[]field.Field{dec(9425, -2), dec(9450, -2), dec(9450, -3)}},
		{"split optional", optional("Px"), []InstructionOption{WithExponent(WithOp(Default), WithInitialValue("-2")), WithMantissa(WithOp(Copy))},
			[]field.Field{dec(9425, -2), field.Null(format.TypeDecimal), dec(9425, -2), dec(9425, -4)}},
		{"split with decimal initial value", optional("Px"), []InstructionOption{WithInitialValue("1.25"), WithExponent(WithOp(Copy)), WithMantissa(WithOp(Copy))},
			[]field.Field{dec(125, -2), dec(125, -2), dec(130, -2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewDecimal(tt.id, tt.opts...)))

			msgs := make([]*field.FieldSet, 0, len(tt.values))
			for _, v := range tt.values {
				if v.IsNull() {
					msgs = append(msgs, message())
				} else {
					msgs = append(msgs, message(tt.id, v))
				}
			}
			roundTrip(t, reg, 1, msgs...)
		})
	}
}

func TestDecimal_SplitPresenceMap(t *testing.T) {
	px := optional("Px")
	in := NewDecimal(px, WithExponent(WithOp(Copy)), WithMantissa(WithOp(Copy)))
	tmpl := NewTemplate(1, "T", "").Add(in)
	newTestRegistry(t, tmpl)

	require.True(t, in.IsSplit())
	require.Equal(t, 2, in.PresenceMapBits())
	require.Equal(t, 3, tmpl.PresenceMapBits())
	require.False(t, in.Exponent().Identity().Mandatory)
	require.True(t, in.Mantissa().Identity().Mandatory)
	require.Equal(t, format.TypeExponent, in.Exponent().ValueType())
	require.Equal(t, format.TypeMantissa, in.Mantissa().ValueType())
}

func TestDecimal_SplitAbsentSkipsMantissa(t *testing.T) {
	px := optional("Px")
	reg := newTestRegistry(t, NewTemplate(1, "T", "").
		Add(NewDecimal(px, WithMantissa(WithOp(Copy)))))

	// Absent exponent is a single null byte; the mantissa bit is not used.
	data := roundTrip(t, reg, 1, message())
	require.Equal(t, []byte{0xC0, 0x81, 0x80}, data)
}

func TestDecimal_ExponentRange(t *testing.T) {
	px := mandatory("Px")
	reg := newTestRegistry(t, NewTemplate(1, "T", "").Add(NewDecimal(px)))

	enc, err := NewEncoder(reg)
	require.NoError(t, err)
	err = enc.EncodeMessage(stream.NewDestination(), 1, message(px, dec(1, 64)))
	require.ErrorIs(t, err, errs.ErrOverflow)
	require.Contains(t, err.Error(), "[ERR R1]")

	// Exponent 64 on the wire.
	d, err := NewDecoder(reg)
	require.NoError(t, err)
	err = d.DecodeMessage(stream.NewBufferSource([]byte{0xC0, 0x81, 0x00, 0xC0, 0x81}), field.NewFieldSet(1))
	require.ErrorIs(t, err, errs.ErrOverflow)
	require.Contains(t, err.Error(), "[ERR R1]")
}

func TestDecimal_FinalizeErrors(t *testing.T) {
	for _, op := range []Op{Increment, Tail} {
		reg := NewRegistry()
		require.NoError(t, reg.Add(NewTemplate(1, "T", "").Add(NewDecimal(mandatory("Px"), WithOp(op)))))
		err := reg.Finalize()
		require.ErrorIs(t, err, errs.ErrTemplateDefinition, op.String())
		require.Contains(t, err.Error(), "[ERR S2]")
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add(NewTemplate(1, "T", "").Add(NewDecimal(mandatory("Px"), WithInitialValue("1e99")))))
	require.ErrorIs(t, reg.Finalize(), errs.ErrTemplateDefinition)

	reg = NewRegistry()
	require.NoError(t, reg.Add(NewTemplate(1, "T", "").Add(NewInteger(format.TypeInt32, mandatory("X"), WithExponent()))))
	require.ErrorIs(t, reg.Finalize(), errs.ErrTemplateDefinition)
}
