// Package field defines the value model produced by the decoder and consumed
// by the encoder: field identities, immutable typed field values, field sets
// and sequences.
//
// A Field is a tagged union over format.ValueType. It either carries a value
// or is null (not present). Fields are never modified after construction;
// storing a new value under the same identity replaces the old Field.
//
// Accessors return errs.ErrFieldNotPresent when called on a null field and
// errs.ErrUnsupportedConversion when the requested representation does not
// match the field type.
package field

import (
	"fmt"
	"strconv"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
)

// Field is an immutable typed value, or a typed null.
type Field struct {
	typ     format.ValueType
	present bool
	i       int64
	u       uint64
	dec     Decimal
	str     string
	group   *FieldSet
	seq     *Sequence
}

// Null returns an absent value of the given type.
func Null(typ format.ValueType) Field {
	return Field{typ: typ}
}

func NewInt8(v int8) Field     { return Field{typ: format.TypeInt8, present: true, i: int64(v)} }
func NewInt16(v int16) Field   { return Field{typ: format.TypeInt16, present: true, i: int64(v)} }
func NewInt32(v int32) Field   { return Field{typ: format.TypeInt32, present: true, i: int64(v)} }
func NewInt64(v int64) Field   { return Field{typ: format.TypeInt64, present: true, i: v} }
func NewUInt8(v uint8) Field   { return Field{typ: format.TypeUInt8, present: true, u: uint64(v)} }
func NewUInt16(v uint16) Field { return Field{typ: format.TypeUInt16, present: true, u: uint64(v)} }
func NewUInt32(v uint32) Field { return Field{typ: format.TypeUInt32, present: true, u: uint64(v)} }
func NewUInt64(v uint64) Field { return Field{typ: format.TypeUInt64, present: true, u: v} }

// NewInteger builds an integer field of any integer type from its
// two's-complement bits. The value is truncated to the width of typ.
func NewInteger(typ format.ValueType, bits int64) Field {
	switch typ {
	case format.TypeInt8:
		return NewInt8(int8(bits))
	case format.TypeInt16:
		return NewInt16(int16(bits))
	case format.TypeInt32, format.TypeExponent:
		return Field{typ: typ, present: true, i: int64(int32(bits))}
	case format.TypeInt64, format.TypeMantissa:
		return Field{typ: typ, present: true, i: bits}
	case format.TypeUInt8:
		return NewUInt8(uint8(bits)) //nolint:gosec
	case format.TypeUInt16:
		return NewUInt16(uint16(bits)) //nolint:gosec
	case format.TypeUInt32:
		return NewUInt32(uint32(bits)) //nolint:gosec
	case format.TypeUInt64:
		return NewUInt64(uint64(bits)) //nolint:gosec
	default:
		panic(fmt.Sprintf("field: %s is not an integer type", typ))
	}
}

// NewDecimalField wraps a Decimal.
func NewDecimalField(d Decimal) Field {
	return Field{typ: format.TypeDecimal, present: true, dec: d}
}

// NewASCII creates an ASCII string field.
func NewASCII(s string) Field {
	return Field{typ: format.TypeAscii, present: true, str: s}
}

// NewUTF8 creates a Unicode string field.
func NewUTF8(s string) Field {
	return Field{typ: format.TypeUtf8, present: true, str: s}
}

// NewByteVector creates a byte vector field holding a copy of b.
func NewByteVector(b []byte) Field {
	return Field{typ: format.TypeByteVector, present: true, str: string(b)}
}

// NewBitmap creates a bitmap field holding a copy of b.
func NewBitmap(b []byte) Field {
	return Field{typ: format.TypeBitmap, present: true, str: string(b)}
}

// NewString builds a string-like field (ascii, utf8, byteVector or bitmap).
func NewString(typ format.ValueType, s string) Field {
	return Field{typ: typ, present: true, str: s}
}

// NewGroup wraps a nested field set.
func NewGroup(fs *FieldSet) Field {
	return Field{typ: format.TypeGroup, present: true, group: fs}
}

// NewSequenceField wraps a sequence.
func NewSequenceField(seq *Sequence) Field {
	return Field{typ: format.TypeSequence, present: true, seq: seq}
}

// Type returns the value type. It never changes after construction.
func (f Field) Type() format.ValueType { return f.typ }

// IsDefined reports whether the field carries a value.
func (f Field) IsDefined() bool { return f.present }

// IsNull reports whether the field is absent.
func (f Field) IsNull() bool { return !f.present }

func (f Field) check(ok bool) error {
	if !f.present {
		return errs.ErrFieldNotPresent
	}
	if !ok {
		return fmt.Errorf("%w: %s field", errs.ErrUnsupportedConversion, f.typ)
	}

	return nil
}

// ToInt64 returns the value of a signed integer field.
func (f Field) ToInt64() (int64, error) {
	if err := f.check(f.typ.IsInteger() && f.typ.IsSigned()); err != nil {
		return 0, err
	}

	return f.i, nil
}

// ToUInt64 returns the value of an unsigned integer field.
func (f Field) ToUInt64() (uint64, error) {
	if err := f.check(f.typ.IsInteger() && !f.typ.IsSigned()); err != nil {
		return 0, err
	}

	return f.u, nil
}

// ToInt32 returns the value of an int32 field.
func (f Field) ToInt32() (int32, error) {
	if err := f.check(f.typ == format.TypeInt32 || f.typ == format.TypeExponent); err != nil {
		return 0, err
	}

	return int32(f.i), nil //nolint:gosec
}

// ToUInt32 returns the value of a uInt32 field.
func (f Field) ToUInt32() (uint32, error) {
	if err := f.check(f.typ == format.TypeUInt32); err != nil {
		return 0, err
	}

	return uint32(f.u), nil //nolint:gosec
}

// ToInteger returns the two's-complement bits of any integer field.
// Unsigned values above math.MaxInt64 wrap to negative numbers.
func (f Field) ToInteger() (int64, error) {
	if err := f.check(f.typ.IsInteger()); err != nil {
		return 0, err
	}
	if f.typ.IsSigned() {
		return f.i, nil
	}

	return int64(f.u), nil //nolint:gosec
}

// ToDecimal returns the value of a decimal field.
func (f Field) ToDecimal() (Decimal, error) {
	if err := f.check(f.typ == format.TypeDecimal); err != nil {
		return Decimal{}, err
	}

	return f.dec, nil
}

// ToString returns the text of an ascii, utf8, byteVector or bitmap field.
func (f Field) ToString() (string, error) {
	if err := f.check(f.isStringLike()); err != nil {
		return "", err
	}

	return f.str, nil
}

// ToBytes returns a copy of the bytes of a string-like field.
func (f Field) ToBytes() ([]byte, error) {
	if err := f.check(f.isStringLike()); err != nil {
		return nil, err
	}

	return []byte(f.str), nil
}

// ToGroup returns the nested field set of a group field.
func (f Field) ToGroup() (*FieldSet, error) {
	if err := f.check(f.typ == format.TypeGroup); err != nil {
		return nil, err
	}

	return f.group, nil
}

// ToSequence returns the entries of a sequence field.
func (f Field) ToSequence() (*Sequence, error) {
	if err := f.check(f.typ == format.TypeSequence); err != nil {
		return nil, err
	}

	return f.seq, nil
}

func (f Field) isStringLike() bool {
	switch f.typ {
	case format.TypeAscii, format.TypeUtf8, format.TypeByteVector, format.TypeBitmap:
		return true
	default:
		return false
	}
}

// Equal compares type, presence and value. Decimals compare numerically.
func (f Field) Equal(other Field) bool {
	if f.typ != other.typ || f.present != other.present {
		return false
	}
	if !f.present {
		return true
	}

	switch {
	case f.typ.IsInteger():
		return f.i == other.i && f.u == other.u
	case f.typ == format.TypeDecimal:
		return f.dec.Equal(other.dec)
	case f.typ == format.TypeGroup:
		return f.group.Equal(other.group)
	case f.typ == format.TypeSequence:
		return f.seq.Equal(other.seq)
	default:
		return f.str == other.str
	}
}

// String renders the value for display; null fields render as "<null>".
func (f Field) String() string {
	if !f.present {
		return "<null>"
	}

	switch {
	case f.typ.IsInteger() && f.typ.IsSigned():
		return strconv.FormatInt(f.i, 10)
	case f.typ.IsInteger():
		return strconv.FormatUint(f.u, 10)
	case f.typ == format.TypeDecimal:
		return f.dec.String()
	case f.typ == format.TypeByteVector || f.typ == format.TypeBitmap:
		return fmt.Sprintf("0x% x", []byte(f.str))
	case f.typ == format.TypeGroup:
		return fmt.Sprintf("group(%d)", f.group.Len())
	case f.typ == format.TypeSequence:
		return fmt.Sprintf("sequence(%d)", f.seq.Len())
	default:
		return f.str
	}
}
