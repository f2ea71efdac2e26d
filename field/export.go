package field

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/objectcomputing/quickfast/format"
)

// ToMap converts the set into plain Go values keyed by qualified field name:
// integers as int64/uint64, decimals as their exact text, strings as string,
// byte vectors and bitmaps as []byte, groups as nested maps and sequences as
// slices of maps. Null fields map to nil.
func (fs *FieldSet) ToMap() map[string]any {
	out := make(map[string]any, fs.Len())
	for _, e := range fs.Entries() {
		out[e.Identity.Name()] = e.Field.value()
	}

	return out
}

func (f Field) value() any {
	if !f.present {
		return nil
	}

	switch {
	case f.typ.IsInteger() && f.typ.IsSigned():
		return f.i
	case f.typ.IsInteger():
		return f.u
	case f.typ == format.TypeDecimal:
		return f.dec.String()
	case f.typ == format.TypeByteVector || f.typ == format.TypeBitmap:
		return []byte(f.str)
	case f.typ == format.TypeGroup:
		return f.group.ToMap()
	case f.typ == format.TypeSequence:
		entries := make([]map[string]any, 0, f.seq.Len())
		for _, e := range f.seq.Entries() {
			entries = append(entries, e.ToMap())
		}

		return entries
	default:
		return f.str
	}
}

var _ msgpack.Marshaler = (*FieldSet)(nil)

// MarshalMsgpack encodes the set as a MessagePack map with sorted keys, so
// equal messages produce identical bytes.
func (fs *FieldSet) MarshalMsgpack() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(fs.ToMap()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
