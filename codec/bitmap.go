package codec

import (
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// BitmapInstruction stands for a bitmap field. The type exists in the value
// model but has no wire encoding; decoding or encoding one fails.
type BitmapInstruction struct {
	fieldBase
}

var _ Instruction = (*BitmapInstruction)(nil)

// NewBitmap creates a bitmap field instruction.
func NewBitmap(identity field.Identity, opts ...InstructionOption) *BitmapInstruction {
	in := &BitmapInstruction{fieldBase: newFieldBase(format.TypeBitmap, identity)}
	applyInstructionOptions(in, opts)

	return in
}

func (in *BitmapInstruction) SetInitialValue(value string) error {
	in.setInitial(field.NewBitmap([]byte(value)))
	return nil
}

func (in *BitmapInstruction) finalize(*Registry, *SegmentBody) error {
	if in.err != nil {
		return errs.TemplateDefinition(in.name(), "%v", in.err)
	}

	return nil
}

func (in *BitmapInstruction) Decode(stream.Source, *pmap.PresenceMap, *Decoder, field.MessageBuilder) error {
	return errs.TemplateDefinition(in.name(), "[ERR I1] bitmap fields are not supported")
}

func (in *BitmapInstruction) Encode(*stream.Destination, *pmap.PresenceMap, *Encoder, *field.FieldSet) error {
	return errs.TemplateDefinition(in.name(), "[ERR I1] bitmap fields are not supported")
}
