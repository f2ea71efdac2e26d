package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/objectcomputing/quickfast/dictionary"
	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// stringWire is the byte representation of a string-like value.
type stringWire interface {
	read(src stream.Source, ctx *Context, name string, nullable bool) (value []byte, null bool, err error)
	write(dst encoding.ByteWriter, value []byte, nullable bool) error
}

// asciiWire is the self-delimiting stop-bit representation.
type asciiWire struct{}

func (asciiWire) read(src stream.Source, _ *Context, _ string, nullable bool) ([]byte, bool, error) {
	raw, err := encoding.DecodeASCII(src, nil)
	if err != nil {
		return nil, false, err
	}
	if nullable {
		v, null := encoding.TrimNullableASCII(raw)
		return v, null, nil
	}

	return encoding.TrimMandatoryASCII(raw), false, nil
}

func (asciiWire) write(dst encoding.ByteWriter, value []byte, nullable bool) error {
	if !encoding.IsASCII(value) {
		return fmt.Errorf("value %q is not 7-bit ASCII", value)
	}
	if nullable {
		encoding.PutNullableASCII(dst, value)
	} else {
		encoding.PutASCII(dst, value)
	}

	return nil
}

// blobWire is a uInt32 length followed by raw bytes.
type blobWire struct{}

func (blobWire) read(src stream.Source, ctx *Context, name string, nullable bool) ([]byte, bool, error) {
	var (
		n     uint64
		null  bool
		flags encoding.Flags
		err   error
	)
	if nullable {
		n, null, flags, err = encoding.DecodeNullableUnsigned(src, 32)
	} else {
		n, flags, err = encoding.DecodeUnsigned(src, 32)
	}
	if err != nil {
		return nil, false, err
	}
	if err := ctx.checkFlags(name, flags); err != nil {
		return nil, false, err
	}
	if null {
		return nil, true, nil
	}

	data, err := encoding.DecodeBytes(src, int(n), nil)

	return data, false, err
}

func (blobWire) write(dst encoding.ByteWriter, value []byte, nullable bool) error {
	if nullable {
		encoding.PutNullableUnsigned(dst, uint64(len(value)))
	} else {
		encoding.PutUnsigned(dst, uint64(len(value)))
	}
	encoding.PutBytes(dst, value)

	return nil
}

// stringInstruction implements the operators shared by ASCII strings and
// length-prefixed blobs.
type stringInstruction struct {
	fieldBase
	wire stringWire
}

// ASCIIInstruction handles 7-bit ASCII string fields.
type ASCIIInstruction struct {
	stringInstruction
}

// BlobInstruction handles unicode string and byte vector fields, which are
// transmitted as a length followed by the raw bytes.
type BlobInstruction struct {
	stringInstruction
}

var (
	_ Instruction = (*ASCIIInstruction)(nil)
	_ Instruction = (*BlobInstruction)(nil)
)

// NewASCII creates an ASCII string field instruction.
func NewASCII(identity field.Identity, opts ...InstructionOption) *ASCIIInstruction {
	in := &ASCIIInstruction{stringInstruction{fieldBase: newFieldBase(format.TypeAscii, identity), wire: asciiWire{}}}
	applyInstructionOptions(in, opts)

	return in
}

// NewUTF8 creates a unicode string field instruction.
func NewUTF8(identity field.Identity, opts ...InstructionOption) *BlobInstruction {
	return newBlob(format.TypeUtf8, identity, opts)
}

// NewByteVector creates a byte vector field instruction.
func NewByteVector(identity field.Identity, opts ...InstructionOption) *BlobInstruction {
	return newBlob(format.TypeByteVector, identity, opts)
}

func newBlob(typ format.ValueType, identity field.Identity, opts []InstructionOption) *BlobInstruction {
	in := &BlobInstruction{stringInstruction{fieldBase: newFieldBase(typ, identity), wire: blobWire{}}}
	applyInstructionOptions(in, opts)

	return in
}

// SetInitialValue parses the initial value. Byte vector values are written
// in hexadecimal; whitespace between digits is ignored.
func (in *stringInstruction) SetInitialValue(value string) error {
	switch in.typ {
	case format.TypeAscii:
		if !encoding.IsASCII([]byte(value)) {
			return fmt.Errorf("initial value of %s is not ASCII", in.name())
		}
	case format.TypeByteVector:
		decoded, err := hex.DecodeString(strings.Join(strings.Fields(value), ""))
		if err != nil {
			return fmt.Errorf("initial value of %s: %w", in.name(), err)
		}
		value = string(decoded)
	}
	in.setInitial(field.NewString(in.typ, value))

	return nil
}

func (in *stringInstruction) finalize(*Registry, *SegmentBody) error {
	return in.checkCommon(Nop, Constant, Default, Copy, Delta, Tail)
}

func (in *stringInstruction) make(b []byte) field.Field {
	return field.NewString(in.typ, string(b))
}

func bytesOf(f field.Field) []byte {
	b, _ := f.ToBytes()
	return b
}

func (in *stringInstruction) read(src stream.Source, ctx *Context, nullable bool) ([]byte, bool, error) {
	v, null, err := in.wire.read(src, ctx, in.name(), nullable)
	if err != nil {
		return nil, false, in.wireError(err)
	}
	if !null {
		ctx.tracef("%s <- %q", in.name(), v)
	}

	return v, null, nil
}

func (in *stringInstruction) write(dst encoding.ByteWriter, ctx *Context, value []byte, nullable bool) error {
	if err := in.wire.write(dst, value, nullable); err != nil {
		return ctx.reportFatal("", in.name(), err.Error())
	}

	return nil
}

func (in *stringInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	v, present, err := in.decodeValue(src, pm, dec.ctx)
	if err != nil {
		return err
	}
	if present {
		b.AddValue(in.identity, v)
	}

	return nil
}

func (in *stringInstruction) decodeValue(src stream.Source, pm *pmap.PresenceMap, ctx *Context) (field.Field, bool, error) {
	nullable := !in.mandatory()
	absent := field.Null(in.typ)

	switch in.op {
	case Nop:
		v, null, err := in.read(src, ctx, nullable)
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
			v, null, err := in.read(src, ctx, nullable)
			if err != nil || null {
				return absent, false, err
			}

			return in.make(v), true, nil
		}
		if in.hasInitial {
			return in.initial, true, nil
		}

		return absent, false, nil

	case Copy:
		if pm.CheckNextField() {
			return in.readAndStore(src, ctx, nullable, nil)
		}

		return in.fromDictionary(ctx)

	case Tail:
		if pm.CheckNextField() {
			base, err := in.tailBase(ctx)
			if err != nil {
				return absent, false, err
			}

			return in.readAndStore(src, ctx, nullable, base)
		}

		return in.fromDictionary(ctx)

	case Delta:
		return in.decodeDelta(src, ctx, nullable)

	default:
		return absent, false, errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for %s fields", in.op, in.typ)
	}
}

// readAndStore reads an explicit value, or a tail to splice onto base when
// base is not nil, and records the result in the dictionary.
func (in *stringInstruction) readAndStore(src stream.Source, ctx *Context, nullable bool, base []byte) (field.Field, bool, error) {
	v, null, err := in.read(src, ctx, nullable)
	if err != nil {
		return field.Null(in.typ), false, err
	}
	if null {
		in.storeNull(ctx)
		return field.Null(in.typ), false, nil
	}
	if base != nil && len(v) <= len(base) {
		joined := make([]byte, 0, len(base))
		joined = append(joined, base[:len(base)-len(v)]...)
		v = append(joined, v...)
	}

	f := in.make(v)
	in.store(ctx, f)

	return f, true, nil
}

func (in *stringInstruction) fromDictionary(ctx *Context) (field.Field, bool, error) {
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

// tailBase is the value a transmitted tail is spliced onto: the previous
// value, or the initial value (or empty) when there is none.
func (in *stringInstruction) tailBase(ctx *Context) ([]byte, error) {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return nil, err
	}
	if status == dictionary.Defined {
		return bytesOf(prev), nil
	}
	if in.hasInitial {
		return bytesOf(in.initial), nil
	}

	return []byte{}, nil
}

func (in *stringInstruction) deltaBase(ctx *Context) ([]byte, error) {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return nil, err
	}

	switch status {
	case dictionary.Defined:
		return bytesOf(prev), nil
	case dictionary.Null:
		return nil, ctx.reportFatal("[ERR D6]", in.name(), "delta base is null")
	default:
		if in.hasInitial {
			return bytesOf(in.initial), nil
		}

		return []byte{}, nil
	}
}

func (in *stringInstruction) decodeDelta(src stream.Source, ctx *Context, nullable bool) (field.Field, bool, error) {
	absent := field.Null(in.typ)

	var (
		length int64
		null   bool
		flags  encoding.Flags
		err    error
	)
	if nullable {
		length, null, flags, err = encoding.DecodeNullableSigned(src, 32, false)
	} else {
		length, flags, err = encoding.DecodeSigned(src, 32, false)
	}
	if err != nil {
		return absent, false, in.wireError(err)
	}
	if err := ctx.checkFlags(in.name(), flags); err != nil {
		return absent, false, err
	}
	if null {
		return absent, false, nil
	}

	diff, _, err := in.read(src, ctx, false)
	if err != nil {
		return absent, false, err
	}
	base, err := in.deltaBase(ctx)
	if err != nil {
		return absent, false, err
	}

	var value []byte
	if length >= 0 {
		if length > int64(len(base)) {
			return absent, false, ctx.reportFatal("[ERR D7]", in.name(), "subtraction length exceeds previous value")
		}
		value = append(append(value, base[:int64(len(base))-length]...), diff...)
	} else {
		front := -length - 1
		if front > int64(len(base)) {
			return absent, false, ctx.reportFatal("[ERR D7]", in.name(), "subtraction length exceeds previous value")
		}
		value = append(append(value, diff...), base[front:]...)
	}

	f := in.make(value)
	in.store(ctx, f)

	return f, true, nil
}

func (in *stringInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	v, present := in.lookup(fs)
	return in.encodeValue(dst, pm, enc.ctx, v, present)
}

func (in *stringInstruction) encodeValue(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, v field.Field, present bool) error {
	if !present && in.mandatory() {
		return in.missingMandatory(ctx)
	}

	var value []byte
	if present {
		var err error
		if value, err = v.ToBytes(); err != nil {
			return in.wireError(err)
		}
		ctx.tracef("%s -> %q", in.name(), value)
	}
	nullable := !in.mandatory()

	switch in.op {
	case Nop:
		if !present {
			encoding.PutNull(dst)
			return nil
		}

		return in.write(dst, ctx, value, nullable)

	case Constant:
		if present && !bytes.Equal(value, bytesOf(in.initial)) {
			return ctx.reportFatal("[ERR U02]", in.name(), fmt.Sprintf("value %q differs from constant", value))
		}
		if !in.mandatory() {
			pm.SetNextField(present)
		}

		return nil

	case Default:
		if in.hasInitial {
			if present && bytes.Equal(value, bytesOf(in.initial)) {
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

		return in.write(dst, ctx, value, nullable)

	case Copy, Tail:
		return in.encodeCopyOrTail(dst, pm, ctx, value, present)

	case Delta:
		return in.encodeDelta(dst, ctx, value, present)

	default:
		return errs.TemplateDefinition(in.name(), "[ERR S2] %s operator not supported for %s fields", in.op, in.typ)
	}
}

func (in *stringInstruction) encodeCopyOrTail(dst *stream.Destination, pm *pmap.PresenceMap, ctx *Context, value []byte, present bool) error {
	prev, status, err := in.previous(ctx)
	if err != nil {
		return err
	}

	var expected []byte
	known, expectAbsent := false, false
	switch status {
	case dictionary.Defined:
		expected, known = bytesOf(prev), true
	case dictionary.Null:
		expectAbsent = true
	default:
		if in.hasInitial {
			expected, known = bytesOf(in.initial), true
		} else {
			expectAbsent = true
		}
	}

	switch {
	case present && known && bytes.Equal(value, expected):
		pm.SetNextField(false)
		in.store(ctx, in.make(value))

		return nil
	case !present && expectAbsent:
		pm.SetNextField(false)
		in.storeNull(ctx)

		return nil
	case !present:
		pm.SetNextField(true)
		encoding.PutNull(dst)
		in.storeNull(ctx)

		return nil
	}

	wire := value
	if in.op == Tail {
		base, err := in.tailBase(ctx)
		if err != nil {
			return err
		}
		switch {
		case len(value) < len(base):
			return ctx.reportFatal("", in.name(), "tail operator cannot shorten the previous value")
		case len(value) == len(base):
			wire = value[commonPrefix(base, value):]
		}
	}

	pm.SetNextField(true)
	if err := in.write(dst, ctx, wire, !in.mandatory()); err != nil {
		return err
	}
	in.store(ctx, in.make(value))

	return nil
}

// encodeDelta transmits the difference to the previous value as a
// subtraction length and a suffix, or as a negative subtraction length and a
// prefix when more bytes are shared at the end.
func (in *stringInstruction) encodeDelta(dst *stream.Destination, ctx *Context, value []byte, present bool) error {
	if !present {
		encoding.PutNull(dst)
		return nil
	}
	base, err := in.deltaBase(ctx)
	if err != nil {
		return err
	}

	prefix := commonPrefix(base, value)
	suffix := commonSuffix(base, value)

	var (
		length int64
		diff   []byte
	)
	if prefix >= suffix {
		length = int64(len(base) - prefix)
		diff = value[prefix:]
	} else {
		length = -int64(len(base)-suffix) - 1
		diff = value[:len(value)-suffix]
	}

	if in.mandatory() {
		encoding.PutSigned(dst, length)
	} else {
		encoding.PutNullableSigned(dst, length)
	}
	if err := in.write(dst, ctx, diff, false); err != nil {
		return err
	}
	in.store(ctx, in.make(value))

	return nil
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return i
}

func commonSuffix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}

	return i
}
