package codec

import (
	"errors"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// SequenceInstruction carries a repeated segment. The entry count is a
// uInt32 encoded by the length instruction with its own operator; its
// presence map bits belong to the enclosing segment. An optional sequence is
// absent when its length is null. Each entry has a presence map of its own
// when the entry segment needs one.
type SequenceInstruction struct {
	fieldBase
	segment *SegmentBody
	length  *IntegerInstruction
}

var _ Instruction = (*SequenceInstruction)(nil)

// NewSequence creates a sequence instruction over the entry segment. When the
// segment has no length instruction a plain uInt32 named "<name>.length" is
// used.
func NewSequence(identity field.Identity, segment *SegmentBody, opts ...InstructionOption) *SequenceInstruction {
	in := &SequenceInstruction{fieldBase: newFieldBase(format.TypeSequence, identity), segment: segment}
	applyInstructionOptions(in, opts)

	return in
}

// Segment returns the entry segment.
func (in *SequenceInstruction) Segment() *SegmentBody { return in.segment }

// LengthInstruction returns the instruction carrying the entry count. It is
// only set after Registry.Finalize.
func (in *SequenceInstruction) LengthInstruction() *IntegerInstruction { return in.length }

func (in *SequenceInstruction) SetInitialValue(string) error {
	return errors.New("sequence fields take no value")
}

func (in *SequenceInstruction) PresenceMapBits() int {
	if in.length == nil {
		return 0
	}

	return in.length.PresenceMapBits()
}

func (in *SequenceInstruction) finalize(r *Registry, parent *SegmentBody) error {
	if in.segment == nil {
		return errs.TemplateDefinition(in.name(), "[ERR U07] sequence has no segment")
	}
	if err := in.checkCommon(Nop); err != nil {
		return err
	}

	length := in.segment.length
	if length == nil {
		id := field.Identity{LocalName: in.identity.LocalName + ".length", Namespace: in.identity.Namespace}
		length = NewInteger(format.TypeUInt32, id)
	}
	length.identity.Mandatory = in.mandatory()
	if err := length.finalize(r, parent); err != nil {
		return err
	}
	in.length = length

	return in.segment.finalize(r, parent)
}

func (in *SequenceInstruction) indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error {
	if in.dictName != "" {
		dictName = in.dictName
	}
	if err := in.length.indexDictionaries(ix, dictName, typeName, typeNs); err != nil {
		return err
	}

	return in.segment.indexDictionaries(ix, dictName, typeName, typeNs)
}

func (in *SequenceInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	ctx := dec.ctx
	src.BeginField(in.length.name())
	v, present, err := in.length.decodeValue(src, pm, ctx)
	if err != nil || !present {
		return err
	}
	count := int(normalize(v))

	seg := in.segment
	seq := b.StartSequence(in.identity, count)
	for i := 0; i < count; i++ {
		ctx.tracef("%s entry %d of %d", in.name(), i+1, count)
		entry := seq.StartEntry(seg.appType, seg.appTypeNs, seg.fieldCount)
		if err := dec.DecodeGroup(src, seg, entry); err != nil {
			return err
		}
		seq.EndEntry(entry)
	}
	b.EndSequence(in.identity, seq)

	return nil
}

func (in *SequenceInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	ctx := enc.ctx
	v, ok := fs.Get(in.name())
	if !ok || v.IsNull() {
		if in.mandatory() {
			return ctx.reportFatal("[ERR U01]", in.name(), "mandatory sequence not present")
		}

		return in.length.encodeValue(dst, pm, ctx, field.Null(format.TypeUInt32), false)
	}

	seq, err := v.ToSequence()
	if err != nil {
		return in.wireError(err)
	}
	if err := in.length.encodeValue(dst, pm, ctx, field.NewUInt32(uint32(seq.Len())), true); err != nil { //nolint:gosec
		return err
	}
	for _, entry := range seq.Entries() {
		if err := enc.EncodeGroup(dst, in.segment, entry); err != nil {
			return err
		}
	}

	return nil
}
