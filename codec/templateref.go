package codec

import (
	"errors"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// StaticTemplateRefInstruction inlines the body of another template, named at
// definition time. The referenced fields share the enclosing presence map;
// they are merged into the enclosing field set when the application types
// match and nested as a group otherwise.
type StaticTemplateRefInstruction struct {
	fieldBase
	templateName string
	templateNs   string
	target       *Template
}

var _ Instruction = (*StaticTemplateRefInstruction)(nil)

// NewStaticTemplateRef creates a reference to the template with the given
// name. The instruction is named after the template.
func NewStaticTemplateRef(templateName, templateNs string, opts ...InstructionOption) *StaticTemplateRefInstruction {
	in := &StaticTemplateRefInstruction{
		fieldBase:    newFieldBase(format.TypeGroup, field.NewIdentity(templateName, templateNs)),
		templateName: templateName,
		templateNs:   templateNs,
	}
	applyInstructionOptions(in, opts)

	return in
}

// Target returns the referenced template once the registry is finalized.
func (in *StaticTemplateRefInstruction) Target() *Template { return in.target }

func (in *StaticTemplateRefInstruction) SetInitialValue(string) error {
	return errors.New("template references take no value")
}

func (in *StaticTemplateRefInstruction) PresenceMapBits() int {
	if in.target == nil {
		return 0
	}

	return in.target.pmapBits - 1
}

func (in *StaticTemplateRefInstruction) FieldCount(*SegmentBody) int {
	if in.target == nil {
		return 0
	}

	return in.target.fieldCount
}

func (in *StaticTemplateRefInstruction) finalize(r *Registry, _ *SegmentBody) error {
	if err := in.checkCommon(Nop); err != nil {
		return err
	}
	target, ok := r.FindNamed(in.templateName, in.templateNs)
	if !ok {
		return errs.TemplateDefinition(in.name(), "[ERR D9] unknown template %q in static template reference",
			qualify(in.templateName, in.templateNs))
	}
	if err := target.finalize(r); err != nil {
		return err
	}
	in.target = target

	return nil
}

// indexDictionaries is a no-op: the referenced fields use the slots of
// their own template.
func (in *StaticTemplateRefInstruction) indexDictionaries(*DictionaryIndexer, string, string, string) error {
	return nil
}

func (in *StaticTemplateRefInstruction) Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	t := in.target
	if b.ApplicationType() == t.appType {
		return dec.DecodeSegmentBody(src, pm, &t.SegmentBody, b)
	}

	group := b.StartGroup(in.identity, t.appType, t.appTypeNs, t.fieldCount)
	if err := dec.DecodeSegmentBody(src, pm, &t.SegmentBody, group); err != nil {
		return err
	}
	b.EndGroup(in.identity, group)

	return nil
}

func (in *StaticTemplateRefInstruction) Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	source := fs
	if v, ok := fs.Get(in.name()); ok && v.IsDefined() {
		group, err := v.ToGroup()
		if err != nil {
			return in.wireError(err)
		}
		source = group
	}

	return enc.EncodeSegmentBody(dst, pm, &in.target.SegmentBody, source)
}

// DynamicTemplateRefInstruction embeds a complete nested message: its own
// presence map, template id and body. The decoded message is added as a group
// field. When encoding, the template is chosen by the application type of
// that group.
type DynamicTemplateRefInstruction struct {
	fieldBase
}

var _ Instruction = (*DynamicTemplateRefInstruction)(nil)

// NewDynamicTemplateRef creates a dynamic template reference.
func NewDynamicTemplateRef(identity field.Identity, opts ...InstructionOption) *DynamicTemplateRefInstruction {
	in := &DynamicTemplateRefInstruction{fieldBase: newFieldBase(format.TypeGroup, identity)}
	applyInstructionOptions(in, opts)

	return in
}

func (in *DynamicTemplateRefInstruction) SetInitialValue(string) error {
	return errors.New("template references take no value")
}

func (in *DynamicTemplateRefInstruction) PresenceMapBits() int { return 0 }

func (in *DynamicTemplateRefInstruction) finalize(*Registry, *SegmentBody) error {
	return in.checkCommon(Nop)
}

func (in *DynamicTemplateRefInstruction) indexDictionaries(*DictionaryIndexer, string, string, string) error {
	return nil
}

func (in *DynamicTemplateRefInstruction) Decode(src stream.Source, _ *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error {
	return dec.decodeNestedTemplate(src, in.identity, b)
}

func (in *DynamicTemplateRefInstruction) Encode(dst *stream.Destination, _ *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error {
	v, ok := fs.Get(in.name())
	if !ok || v.IsNull() {
		return in.missingMandatory(enc.ctx)
	}
	group, err := v.ToGroup()
	if err != nil {
		return in.wireError(err)
	}

	t, ok := enc.ctx.registry.templateForType(group.ApplicationType(), group.ApplicationTypeNamespace())
	if !ok {
		return enc.ctx.reportFatal("[ERR D9]", in.name(),
			"no template for application type "+qualify(group.ApplicationType(), group.ApplicationTypeNamespace()))
	}

	return enc.encodeSegment(dst, t, group)
}
