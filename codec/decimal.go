package codec

import (
	"errors"
	"fmt"

	"github.com/objectcomputing/quickfast/dictionary"
	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/internal/options"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

const (
	minExponent = -63
	maxExponent = 63
)

// DecimalInstruction handles scaled decimal fields, transmitted as an
// exponent followed by a mantissa.
//
// In single-operator mode one operator governs the pair. In split mode the
// exponent and the mantissa are independent integer fields with operators and
// dictionary slots of their own; the mantissa is skipped entirely when an
// optional exponent is absent.
type DecimalInstruction struct {
	fieldBase
	exponent *IntegerInstruction
	mantissa *IntegerInstruction
}

var _ Instruction = (*DecimalInstruction)(nil)

// NewDecimal creates a decimal field instruction.
func NewDecimal(identity field.Identity, opts ...InstructionOption) *DecimalInstruction {
	in := &DecimalInstruction{fieldBase: newFieldBase(format.TypeDecimal, identity)}
	applyInstructionOptions(in, opts)

	return in
}

// WithExponent switches a decimal to split mode and configures its exponent.
func WithExponent(opts ...InstructionOption) InstructionOption {
	return options.New(func(in Instruction) error {
		d, ok := in.(*DecimalInstruction)
		if !ok {
			return errors.New("exponent options apply to decimal fields only")
		}
		d.split()

		return options.Apply[Instruction](d.exponent, opts...)
	})
}

// WithMantissa switches a decimal to split mode and configures its mantissa.
func WithMantissa(opts ...InstructionOption) InstructionOption {
	return options.New(func(in Instruction) error {
		d, ok := in.(*DecimalInstruction)
		if !ok {
			return errors.New("mantissa options apply to decimal fields only")
		}
		d.split()

		return options.Apply[Instruction](d.mantissa, opts...)
	})
}

func (in *DecimalInstruction) split() {
	if in.exponent != nil {
		return
	}
	id := in.identity
	in.exponent = NewInteger(format.TypeExponent, field.Identity{
		LocalName: id.LocalName + "|exponent",
		Namespace: id.Namespace,
		Mandatory: id.Mandatory,
	})
	in.mantissa = NewInteger(format.TypeMantissa, field.NewIdentity(id.LocalName+"|mantissa", id.Namespace))
}

// IsSplit reports whether exponent and mantissa have separate operators.
func (in *DecimalInstruction) IsSplit() bool {
	return in.exponent != nil
}

// Exponent returns the exponent sub-instruction in split mode, or nil.
func (in *DecimalInstruction) Exponent() *IntegerInstruction { return in.exponent }

// Mantissa returns the mantissa sub-instruction in split mode, or nil.
func (in *DecimalInstruction) Mantissa() *IntegerInstruction { return in.mantissa }

func (in *DecimalInstruction) SetInitialValue(value string) error {
	d, err := field.ParseDecimal(value)
	if err != nil {
		return fmt.Errorf("initial value of %s: %w", in.name(), err)
	}
	if d.Exponent < minExponent || d.Exponent > maxExponent {
		return fmt.Errorf("initial value of %s: exponent %d out of range", in.name(), d.Exponent)
	}
	in.setInitial(field.NewDecimalField(d))

	return nil
}

func (in *DecimalInstruction) PresenceMapBits() int {
	if in.IsSplit() {
		return in.exponent.PresenceMapBits() + in.mantissa.PresenceMapBits()
	}

	return in.fieldBase.PresenceMapBits()
}

func (in *DecimalInstruction) finalize(r *Registry, parent *SegmentBody) error {
	if !in.IsSplit() {
		return in.checkCommon(Nop, Constant, Default, Copy, Delta)
	}
	if in.err != nil {
		return errs.TemplateDefinition(in.name(), "%v", in.err)
	}

	if in.hasInitial {
		d, _ := in.initial.ToDecimal()
		if !in.exponent.hasInitial {
			in.exponent.setInitial(field.NewInteger(format.TypeExponent, int64(d.Exponent)))
		}
		if !in.mantissa.hasInitial {
			in.mantissa.setInitial(field.NewInteger(format.TypeMantissa, d.Mantissa))
		}
	}
	if err := in.exponent.finalize(r, parent); err != nil {
		return err
	}

	return in.mantissa.finalize(r, parent)
}

func (in *DecimalInstruction) indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error {
	if !in.IsSplit() {
		return in.fieldBase.indexDictionaries(ix, dictName, typeName, typeNs)
	}
	if in.dictName != "" {
		dictName = in.dictName
	}
	if err := in.exponent.indexDictionaries(ix, dictName, typeName, typeNs); err != nil {
		return err
	}

	return in.mantissa.indexDictionaries(ix, dictName, typeName, typeNs)
}

func (in *DecimalInstruction) checkExponent(ctx *Context, exponent int64) error {
	if exponent < minExponent || exponent > maxExponent {
		return ctx.reportOverflow("[ERR R1]", in.name(), fmt.Sprintf("decimal exponent %d out of range", exponent))
	}

	return nil
}

// read decodes an exponent/mantissa pair. With delta set both parts are
// differences and may use one extra bit of range.
func (in *DecimalInstruction) read(src stream.Source, ctx *Context, nullable, delta bool) (exponent, mantissa int64, null bool, err error) {
	var flags encoding.Flags
	if nullable {
		exponent, null, flags, err = encoding.DecodeNullableSigned(src, 32, delta)
	} else {
		exponent, flags, err = encoding.DecodeSigned(src, 32, delta)
	}
	if err != nil {
		return 0, 0, false, in.wireError(err)
	}
	if err = ctx.checkFlags(in.name(), flags); err != nil || null {
		return 0, 0, null, err
	}

	mantissa, flags, err = encoding.DecodeSigned(src, 64, delta)
	if err != nil {
		return 0, 0, false, in.wireError(err)
	}
	if err = ctx.checkFlags(in.name(), flags); err != nil {
		return 0, 0, false, err
	}
	ctx.tracef("%s <- %de%d", in.name(), mantissa, exponent)

	return exponent, mantissa, false, nil
}

func (in *DecimalInstruction) readValue(src stream.Source, ctx *Context, nullable bool) (field.Field, bool, error) {
	exponent, mantissa, null, err := in.read(src, ctx, nullable, false)
	if err != nil || null {
		return field.Null(in.typ), false, err
	}
	if err := in.checkExponent(ctx, exponent); err != nil {
		return field.Null(in.typ), false, err
	}

	return field.NewDecimalField(field.NewDecimal(mantissa, int8(exponent))), true, nil //nolint:gosec
}

func (in *DecimalInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	var (
		v       field.Field
		present bool
		err     error
	)
	if in.IsSplit() {
		v, present, err = in.decodeSplit(src, pm, dec.ctx)
	} else {
		v, present, err = in.decodeValue(src, pm, dec.ctx)
	}
	if err != nil {
		return err
	}
	if present {
		b.AddValue(in.identity, v)
	}

	return nil
}

func (in *DecimalInstruction) decodeSplit(src stream.Source, pm *pmap.PresenceMap, ctx *Context) (field.Field, bool, error) {
	absent := field.Null(in.typ)
	e, present, err := in.exponent.decodeValue(src, pm, ctx)
	if err != nil || !present {
		return absent, false, err
	}
	m, present, err := in.mantissa.decodeValue(src, pm, ctx)
	if err != nil {
		return absent, false, err
	}
	if !present {
		return absent, false, ctx.reportFatal("[ERR D6]", in.name(), "decimal mantissa not present")
	}

	exponent := normalize(e)
	if err := in.checkExponent(ctx, exponent); err != nil {
		return absent, false, err
	}

	return field.NewDecimalField(field.NewDecimal(normalize(m), int8(exponent))), true, nil //nolint:gosec
}

func (in *DecimalInstruction) decodeValue(src stream.Source, pm *pmap.PresenceMap, ctx *Context) (field.Field, bool, error) {
	nullable := !in.mandatory()
	absent := field.Null(in.typ)

	switch in.op {
	case Nop:
		return in.readValue(src, ctx, nullable)

	case Constant:
		if in.mandatory() || pm.CheckNextField() {
			return in.initial, true, nil
		}

		return absent, false, nil

	case Default:
		if pm.CheckNextField() {
			return in.readValue(src, ctx, nullable)
		}
		if in.hasInitial {
			return in.initial, true, nil
		}

		return absent, false, nil

	case Copy:
		if pm.CheckNextField() {
			v, present, err := in.readValue(src, ctx, nullable)
			if err != nil {
				return absent, false, err
			}
			if !present {
				in.storeNull(ctx)
				return absent, false, nil
			}
			in.store(ctx, v)

			return v, true, nil
		}

		return in.fromDictionary(ctx)

	case Delta:
		de, dm, null, err := in.read(src, ctx, nullable, true)
		if err != nil || null {
			return absent, false, err
		}
		base, err := in.deltaBase(ctx)
		if err != nil {
			return absent, false, err
		}
		exponent := int64(base.Exponent) + de
		if err := in.checkExponent(ctx, exponent); err != nil {
			return absent, false, err
		}
		v := field.NewDecimalField(field.NewDecimal(base.Mantissa+dm, int8(exponent))) //nolint:gosec
		in.store(ctx, v)

		return v, true, nil

	default:
		return absent, false, errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for decimal fields", in.op)
	}
}

func (in *DecimalInstruction) fromDictionary(ctx *Context) (field.Field, bool, error) {
	absent := field.Null(in.typ)
	prev, status, err := in.previous(ctx)
	if err != nil {
		return absent, false, err
	}

	switch status {
	case dictionary.Defined:
		return prev, true, nil
	case dictionary.Null:
		if in.mandatory() {
			return absent, false, ctx.reportFatal("[ERR D6]", in.name(), "mandatory field has null dictionary value")
		}

		return absent, false, nil
	default:
		if in.hasInitial {
			in.store(ctx, in.initial)
			return in.initial, true, nil
		}
		if in.mandatory() {
			return absent, false, ctx.reportFatal("[ERR D5]", in.name(), "no dictionary or initial value")
		}
		in.storeNull(ctx)

		return absent, false, nil
	}
}

func (in *DecimalInstruction) deltaBase(ctx *Context) (field.Decimal, error) {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return field.Decimal{}, err
	}

	switch status {
	case dictionary.Defined:
		d, _ := prev.ToDecimal()
		return d, nil
	case dictionary.Null:
		return field.Decimal{}, ctx.reportFatal("[ERR D6]", in.name(), "delta base is null")
	default:
		if in.hasInitial {
			d, _ := in.initial.ToDecimal()
			return d, nil
		}

		return field.Decimal{}, nil
	}
}

func (in *DecimalInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	ctx := enc.ctx
	v, present := in.lookup(fs)
	if !present && in.mandatory() {
		return in.missingMandatory(ctx)
	}

	var d field.Decimal
	if present {
		var err error
		if d, err = v.ToDecimal(); err != nil {
			return in.wireError(err)
		}
		if d.Exponent < minExponent || d.Exponent > maxExponent {
			return errs.Overflow("[ERR R1]", in.name(), "decimal exponent %d out of range", d.Exponent)
		}
		ctx.tracef("%s -> %s", in.name(), d)
	}

	if in.IsSplit() {
		if err := in.exponent.encodeValue(dst, pm, ctx, field.NewInteger(format.TypeExponent, int64(d.Exponent)), present); err != nil {
			return err
		}
		if !present {
			return nil
		}

		return in.mantissa.encodeValue(dst, pm, ctx, field.NewInteger(format.TypeMantissa, d.Mantissa), true)
	}

	return in.encodeValue(dst, pm, ctx, d, present)
}

func (in *DecimalInstruction) write(dst encoding.ByteWriter, exponent, mantissa int64) {
	if in.mandatory() {
		encoding.PutSigned(dst, exponent)
	} else {
		encoding.PutNullableSigned(dst, exponent)
	}
	encoding.PutSigned(dst, mantissa)
}

func (in *DecimalInstruction) encodeValue(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, d field.Decimal, present bool) error {
	current := field.NewDecimalField(d)

	switch in.op {
	case Nop:
		if !present {
			encoding.PutNull(dst)
			return nil
		}
		in.write(dst, int64(d.Exponent), d.Mantissa)

	case Constant:
		if present && !current.Equal(in.initial) {
			return ctx.reportFatal("[ERR U02]", in.name(), fmt.Sprintf("value %s differs from constant %s", d, in.initial))
		}
		if !in.mandatory() {
			pm.SetNextField(present)
		}

	case Default:
		if in.hasInitial {
			if present && current.Equal(in.initial) {
				pm.SetNextField(false)
				return nil
			}
		} else if !present {
			pm.SetNextField(false)
			return nil
		}
		pm.SetNextField(true)
		if !present {
			encoding.PutNull(dst)
			return nil
		}
		in.write(dst, int64(d.Exponent), d.Mantissa)

	case Copy:
		return in.encodeCopy(dst, pm, ctx, current, present)

	case Delta:
		if !present {
			encoding.PutNull(dst)
			return nil
		}
		base, err := in.deltaBase(ctx)
		if err != nil {
			return err
		}
		in.write(dst, int64(d.Exponent)-int64(base.Exponent), d.Mantissa-base.Mantissa)
		in.store(ctx, current)

	default:
		return errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for decimal fields", in.op)
	}

	return nil
}

func (in *DecimalInstruction) encodeCopy(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, current field.Field, present bool) error {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return err
	}

	var expected field.Field
	known, expectAbsent := false, false
	switch status {
	case dictionary.Defined:
		expected, known = prev, true
	case dictionary.Null:
		expectAbsent = true
	default:
		if in.hasInitial {
			expected, known = in.initial, true
		} else {
			expectAbsent = true
		}
	}

	switch {
	case present && known && current.Equal(expected):
		pm.SetNextField(false)
		in.store(ctx, expected)
	case !present && expectAbsent:
		pm.SetNextField(false)
		in.storeNull(ctx)
	case !present:
		pm.SetNextField(true)
		encoding.PutNull(dst)
		in.storeNull(ctx)
	default:
		pm.SetNextField(true)
		d, _ := current.ToDecimal()
		in.write(dst, int64(d.Exponent), d.Mantissa)
		in.store(ctx, current)
	}

	return nil
}
