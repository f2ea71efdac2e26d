package codec

import (
	"errors"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// GroupInstruction embeds a nested segment.
//
// A group whose application type equals that of the enclosing segment is
// merged: its fields are decoded straight into the enclosing field set and
// encoded from it. Otherwise the group is nested as a single group field.
// An optional group takes one bit of the enclosing presence map.
type GroupInstruction struct {
	fieldBase
	segment *SegmentBody
	merged  bool
}

var _ Instruction = (*GroupInstruction)(nil)

// NewGroup creates a group instruction over segment.
func NewGroup(identity field.Identity, segment *SegmentBody, opts ...InstructionOption) *GroupInstruction {
	in := &GroupInstruction{fieldBase: newFieldBase(format.TypeGroup, identity), segment: segment}
	applyInstructionOptions(in, opts)

	return in
}

// Segment returns the nested segment.
func (in *GroupInstruction) Segment() *SegmentBody { return in.segment }

func (in *GroupInstruction) SetInitialValue(string) error {
	return errors.New("[ERR U11] group fields take no value")
}

func (in *GroupInstruction) PresenceMapBits() int {
	if in.mandatory() {
		return 0
	}

	return 1
}

func (in *GroupInstruction) FieldCount(parent *SegmentBody) int {
	if parent != nil && parent.appType == in.segment.appType {
		return in.segment.fieldCount
	}

	return 1
}

func (in *GroupInstruction) finalize(r *Registry, parent *SegmentBody) error {
	if in.segment == nil {
		return errs.TemplateDefinition(in.name(), "[ERR U08] group has no segment")
	}
	if err := in.checkCommon(Nop); err != nil {
		return err
	}
	if err := in.segment.finalize(r, parent); err != nil {
		return err
	}
	in.merged = parent != nil && parent.appType == in.segment.appType

	return nil
}

func (in *GroupInstruction) indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error {
	if in.dictName != "" {
		dictName = in.dictName
	}

	return in.segment.indexDictionaries(ix, dictName, typeName, typeNs)
}

func (in *GroupInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	if !in.mandatory() && !pm.CheckNextField() {
		return nil
	}

	seg := in.segment
	if b.ApplicationType() == seg.appType {
		return dec.DecodeGroup(src, seg, b)
	}

	group := b.StartGroup(in.identity, seg.appType, seg.appTypeNs, seg.fieldCount)
	if err := dec.DecodeGroup(src, seg, group); err != nil {
		return err
	}
	b.EndGroup(in.identity, group)

	return nil
}

func (in *GroupInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	ctx := enc.ctx
	if v, ok := fs.Get(in.name()); ok && v.IsDefined() {
		group, err := v.ToGroup()
		if err != nil {
			return in.wireError(err)
		}
		if !in.mandatory() {
			pm.SetNextField(true)
		}

		return enc.EncodeGroup(dst, in.segment, group)
	}

	if in.merged && (in.mandatory() || in.anyPresent(fs)) {
		if !in.mandatory() {
			pm.SetNextField(true)
		}

		return enc.EncodeGroup(dst, in.segment, fs)
	}

	if in.mandatory() {
		return ctx.reportFatal("[ERR U09]", in.name(), "mandatory group not present")
	}
	pm.SetNextField(false)

	return nil
}

// anyPresent reports whether fs holds a value for any field of a merged
// group.
func (in *GroupInstruction) anyPresent(fs *field.FieldSet) bool {
	return segmentHasValues(in.segment, fs)
}

func segmentHasValues(seg *SegmentBody, fs *field.FieldSet) bool {
	for _, child := range seg.instructions {
		if g, ok := child.(*GroupInstruction); ok && g.merged {
			if segmentHasValues(g.segment, fs) {
				return true
			}
			continue
		}
		if v, ok := fs.Get(child.Identity().Name()); ok && v.IsDefined() {
			return true
		}
	}

	return false
}
