package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/objectcomputing/quickfast/dictionary"
	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// IntegerInstruction handles the signed and unsigned integer types of every
// width, plus the exponent and mantissa parts of split decimals.
//
// Values are carried internally as int64 two's-complement bits, so uInt64
// values above math.MaxInt64 appear negative and arithmetic wraps at 64 bits.
type IntegerInstruction struct {
	fieldBase
	bits   int
	signed bool
}

var _ Instruction = (*IntegerInstruction)(nil)

// NewInteger creates an integer field instruction.
//
// Parameters:
//   - typ: One of the integer value types
//   - identity: Field name and presence
//   - opts: Operator, dictionary and initial value options
//
// Returns:
//   - *IntegerInstruction: The instruction; option errors surface from Registry.Finalize
func NewInteger(typ format.ValueType, identity field.Identity, opts ...InstructionOption) *IntegerInstruction {
	in := &IntegerInstruction{
		fieldBase: newFieldBase(typ, identity),
		bits:      typ.Bits(),
		signed:    typ.IsSigned(),
	}
	if !typ.IsInteger() {
		in.err = fmt.Errorf("%s is not an integer type", typ)
	}
	applyInstructionOptions(in, opts)

	return in
}

func (in *IntegerInstruction) SetInitialValue(value string) error {
	text := strings.TrimSpace(value)
	if in.signed {
		v, err := strconv.ParseInt(text, 10, in.bits)
		if err != nil {
			return fmt.Errorf("initial value of %s: %w", in.name(), err)
		}
		in.setInitial(in.make(v))

		return nil
	}

	v, err := strconv.ParseUint(text, 10, in.bits)
	if err != nil {
		return fmt.Errorf("initial value of %s: %w", in.name(), err)
	}
	in.setInitial(in.make(int64(v))) //nolint:gosec

	return nil
}

func (in *IntegerInstruction) finalize(*Registry, *SegmentBody) error {
	return in.checkCommon(Nop, Constant, Default, Copy, Increment, Delta)
}

func (in *IntegerInstruction) make(bits int64) field.Field {
	return field.NewInteger(in.typ, bits)
}

// fits reports whether value, read as signed or unsigned, is representable in
// the instruction type.
func (in *IntegerInstruction) fits(value int64, valueSigned bool) bool {
	if in.signed {
		if !valueSigned && value < 0 {
			return false
		}
		if in.bits == 64 {
			return true
		}
		limit := int64(1) << uint(in.bits-1) //nolint:gosec

		return value >= -limit && value < limit
	}

	if valueSigned && value < 0 {
		return false
	}
	if in.bits == 64 {
		return true
	}

	return uint64(value) <= uint64(1)<<uint(in.bits)-1 //nolint:gosec
}

// valueBits converts an application value to the instruction's representation.
func (in *IntegerInstruction) valueBits(ctx *Context, v field.Field) (int64, error) {
	raw, err := v.ToInteger()
	if err != nil {
		return 0, in.wireError(err)
	}
	if v.Type() != in.typ && !in.fits(raw, v.Type().IsSigned()) {
		return 0, ctx.reportFatal("[ERR R4]", in.name(), fmt.Sprintf("%s value %s does not fit %s", v.Type(), v, in.typ))
	}

	return normalize(in.make(raw)), nil
}

func normalize(f field.Field) int64 {
	raw, _ := f.ToInteger()
	return raw
}

func (in *IntegerInstruction) read(src stream.Source, ctx *Context, nullable, oversize bool) (int64, bool, error) {
	var (
		value int64
		null  bool
		flags encoding.Flags
		err   error
	)
	switch {
	case in.signed || oversize:
		if nullable {
			value, null, flags, err = encoding.DecodeNullableSigned(src, in.bits, oversize)
		} else {
			value, flags, err = encoding.DecodeSigned(src, in.bits, oversize)
		}
	default:
		var u uint64
		if nullable {
			u, null, flags, err = encoding.DecodeNullableUnsigned(src, in.bits)
		} else {
			u, flags, err = encoding.DecodeUnsigned(src, in.bits)
		}
		value = int64(u) //nolint:gosec
	}
	if err != nil {
		return 0, false, in.wireError(err)
	}
	if err := ctx.checkFlags(in.name(), flags); err != nil {
		return 0, false, err
	}
	if !null {
		ctx.tracef("%s <- %d", in.name(), value)
	}

	return value, null, nil
}

func (in *IntegerInstruction) write(dst encoding.ByteWriter, value int64, nullable bool) {
	switch {
	case in.signed && nullable:
		encoding.PutNullableSigned(dst, value)
	case in.signed:
		encoding.PutSigned(dst, value)
	case nullable:
		encoding.PutNullableUnsigned(dst, uint64(value)) //nolint:gosec
	default:
		encoding.PutUnsigned(dst, uint64(value)) //nolint:gosec
	}
}

func (in *IntegerInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	v, present, err := in.decodeValue(src, pm, dec.ctx)
	if err != nil {
		return err
	}
	if present {
		b.AddValue(in.identity, v)
	}

	return nil
}

// decodeValue runs the operator and reports whether the field is present.
func (in *IntegerInstruction) decodeValue(src stream.Source, pm *pmap.PresenceMap, ctx *Context) (field.Field, bool, error) {
	nullable := !in.mandatory()
	absent := field.Null(in.typ)

	switch in.op {
	case Nop:
		v, null, err := in.read(src, ctx, nullable, false)
		if err != nil || null {
			return absent, false, err
		}

		return in.make(v), true, nil

	case Constant:
		if in.mandatory() || pm.CheckNextField() {
			return in.initial, true, nil
		}

		return absent, false, nil

	case Default:
		if pm.CheckNextField() {
			v, null, err := in.read(src, ctx, nullable, false)
			if err != nil || null {
				return absent, false, err
			}

			return in.make(v), true, nil
		}
		if in.hasInitial {
			return in.initial, true, nil
		}

		return absent, false, nil

	case Copy, Increment:
		if pm.CheckNextField() {
			v, null, err := in.read(src, ctx, nullable, false)
			if err != nil {
				return absent, false, err
			}
			if null {
				in.storeNull(ctx)
				return absent, false, nil
			}
			f := in.make(v)
			in.store(ctx, f)

			return f, true, nil
		}

		return in.fromDictionary(ctx)

	case Delta:
		delta, null, err := in.read(src, ctx, nullable, true)
		if err != nil || null {
			return absent, false, err
		}
		base, err := in.deltaBase(ctx)
		if err != nil {
			return absent, false, err
		}
		result := base + delta
		if in.bits < 64 && !in.fits(result, true) {
			if err := ctx.reportOverflow("[ERR R4]", in.name(), fmt.Sprintf("delta result %d does not fit %s", result, in.typ)); err != nil {
				return absent, false, err
			}
		}
		f := in.make(result)
		in.store(ctx, f)

		return f, true, nil

	default:
		return absent, false, errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for %s fields", in.op, in.typ)
	}
}

// fromDictionary resolves a copy or increment field whose presence bit is clear.
func (in *IntegerInstruction) fromDictionary(ctx *Context) (field.Field, bool, error) {
	absent := field.Null(in.typ)
	prev, status, err := in.previous(ctx)
	if err != nil {
		return absent, false, err
	}

	switch status {
	case dictionary.Defined:
		if in.op == Increment {
			prev = in.make(normalize(prev) + 1)
			in.store(ctx, prev)
		}

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

func (in *IntegerInstruction) deltaBase(ctx *Context) (int64, error) {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return 0, err
	}

	switch status {
	case dictionary.Defined:
		return normalize(prev), nil
	case dictionary.Null:
		return 0, ctx.reportFatal("[ERR D6]", in.name(), "delta base is null")
	default:
		if in.hasInitial {
			return normalize(in.initial), nil
		}

		return 0, nil
	}
}

func (in *IntegerInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	v, present := in.lookup(fs)
	return in.encodeValue(dst, pm, enc.ctx, v, present)
}

func (in *IntegerInstruction) encodeValue(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, v field.Field, present bool) error {
	if !present && in.mandatory() {
		return in.missingMandatory(ctx)
	}

	var raw int64
	if present {
		var err error
		if raw, err = in.valueBits(ctx, v); err != nil {
			return err
		}
		ctx.tracef("%s -> %d", in.name(), raw)
	}
	nullable := !in.mandatory()

	switch in.op {
	case Nop:
		if !present {
			encoding.PutNull(dst)
			return nil
		}
		in.write(dst, raw, nullable)

	case Constant:
		if present && raw != normalize(in.initial) {
			return ctx.reportFatal("[ERR U02]", in.name(), fmt.Sprintf("value %d differs from constant %s", raw, in.initial))
		}
		if !in.mandatory() {
			pm.SetNextField(present)
		}

	case Default:
		if in.hasInitial {
			if present && raw == normalize(in.initial) {
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
		in.write(dst, raw, nullable)

	case Copy, Increment:
		return in.encodeCopy(dst, pm, ctx, raw, present)

	case Delta:
		if !present {
			encoding.PutNull(dst)
			return nil
		}
		base, err := in.deltaBase(ctx)
		if err != nil {
			return err
		}
		if nullable {
			encoding.PutNullableSigned(dst, raw-base)
		} else {
			encoding.PutSigned(dst, raw-base)
		}
		in.store(ctx, in.make(raw))

	default:
		return errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for %s fields", in.op, in.typ)
	}

	return nil
}

// encodeCopy omits the value when the decoder can reproduce it from the
// dictionary: the previous value for copy, previous plus one for increment,
// or the initial value when the slot was never assigned.
func (in *IntegerInstruction) encodeCopy(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, raw int64, present bool) error {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return err
	}

	var expected int64
	known, expectAbsent := false, false
	switch status {
	case dictionary.Defined:
		expected, known = normalize(prev), true
		if in.op == Increment {
			expected = normalize(in.make(expected + 1))
		}
	case dictionary.Null:
		expectAbsent = true
	default:
		if in.hasInitial {
			expected, known = normalize(in.initial), true
		} else {
			expectAbsent = true
		}
	}

	switch {
	case present && known && raw == expected:
		pm.SetNextField(false)
		in.store(ctx, in.make(raw))
	case !present && expectAbsent:
		pm.SetNextField(false)
		in.storeNull(ctx)
	case !present:
		pm.SetNextField(true)
		encoding.PutNull(dst)
		in.storeNull(ctx)
	default:
		pm.SetNextField(true)
		in.write(dst, raw, !in.mandatory())
		in.store(ctx, in.make(raw))
	}

	return nil
}
