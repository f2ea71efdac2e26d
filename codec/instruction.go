package codec

import (
	"fmt"

	"github.com/objectcomputing/quickfast/dictionary"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/internal/options"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// Instruction decodes and encodes one field of a segment.
type Instruction interface {
	// Identity returns the name, namespace and presence of the field.
	Identity() field.Identity
	// Op returns the field operator.
	Op() Op
	// ValueType returns the type of the values the instruction produces.
	ValueType() format.ValueType
	// PresenceMapBits returns the number of bits the field needs in the
	// presence map of the enclosing segment.
	PresenceMapBits() int
	// FieldCount returns the number of entries the field contributes to the
	// field set of parent.
	FieldCount(parent *SegmentBody) int
	// SetInitialValue parses the initial value from its template text.
	SetInitialValue(value string) error

	// Decode reads the field and hands the result to b.
	Decode(src stream.Source, pm *pmap.PresenceMap, dec *Decoder, b field.MessageBuilder) error
	// Encode writes the field, taking its value from fs.
	Encode(dst *stream.Destination, pm *pmap.PresenceMap, enc *Encoder, fs *field.FieldSet) error

	base() *fieldBase
	finalize(r *Registry, parent *SegmentBody) error
	indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error
}

// InstructionOption configures an instruction when it is created.
type InstructionOption = options.Option[Instruction]

// WithOp sets the field operator. The default is Nop.
func WithOp(op Op) InstructionOption {
	return options.NoError(func(in Instruction) {
		in.base().op = op
	})
}

// WithDictionary names the dictionary the field's state lives in: "global"
// (or empty), "template", "type" or a user dictionary name.
func WithDictionary(name string) InstructionOption {
	return options.NoError(func(in Instruction) {
		in.base().dictName = name
	})
}

// WithKey overrides the dictionary key, which defaults to the field name.
func WithKey(key, namespace string) InstructionOption {
	return options.NoError(func(in Instruction) {
		in.base().key, in.base().keyNs = key, namespace
	})
}

// WithInitialValue sets the initial (constant, default or dictionary seed)
// value from its template text.
func WithInitialValue(value string) InstructionOption {
	return options.New(func(in Instruction) error {
		return in.SetInitialValue(value)
	})
}

// WithID sets the application id of the field, such as a FIX tag.
func WithID(id string) InstructionOption {
	return options.NoError(func(in Instruction) {
		in.base().identity.ID = id
	})
}

// fieldBase holds the state every instruction shares.
type fieldBase struct {
	identity   field.Identity
	typ        format.ValueType
	op         Op
	dictName   string
	key        string
	keyNs      string
	dictIndex  int
	initial    field.Field
	hasInitial bool
	// err is the first error raised while applying options; Finalize reports it.
	err error
}

func newFieldBase(typ format.ValueType, identity field.Identity) fieldBase {
	return fieldBase{identity: identity, typ: typ, initial: field.Null(typ), dictIndex: -1}
}

func applyInstructionOptions(in Instruction, opts []InstructionOption) {
	if err := options.Apply(in, opts...); err != nil {
		in.base().err = err
	}
}

func (b *fieldBase) base() *fieldBase { return b }

func (b *fieldBase) Identity() field.Identity    { return b.identity }
func (b *fieldBase) Op() Op                      { return b.op }
func (b *fieldBase) ValueType() format.ValueType { return b.typ }

// DictionaryName returns the dictionary name set on the field, if any.
func (b *fieldBase) DictionaryName() string { return b.dictName }

// DictionaryIndex returns the slot assigned by Registry.Finalize, or -1.
func (b *fieldBase) DictionaryIndex() int { return b.dictIndex }

// InitialValue returns the initial value and whether one was set.
func (b *fieldBase) InitialValue() (field.Field, bool) { return b.initial, b.hasInitial }

func (b *fieldBase) PresenceMapBits() int {
	if b.op.UsesPresenceMapBit(b.identity.Mandatory) {
		return 1
	}

	return 0
}

func (b *fieldBase) FieldCount(*SegmentBody) int { return 1 }

func (b *fieldBase) name() string { return b.identity.Name() }

func (b *fieldBase) mandatory() bool { return b.identity.Mandatory }

func (b *fieldBase) setInitial(v field.Field) {
	b.initial = v
	b.hasInitial = true
}

// checkCommon validates the operator against allowed and the initial value
// requirements shared by every scalar field.
func (b *fieldBase) checkCommon(allowed ...Op) error {
	if b.err != nil {
		return errs.TemplateDefinition(b.name(), "%v", b.err)
	}

	ok := false
	for _, op := range allowed {
		if op == b.op {
			ok = true
			break
		}
	}
	if !ok {
		return errs.TemplateDefinition(b.name(), "[ERR S2] %s operator not supported for %s fields", b.op, b.typ)
	}
	if b.op == Constant && !b.hasInitial {
		return errs.TemplateDefinition(b.name(), "constant operator requires a value")
	}
	if b.op == Default && b.mandatory() && !b.hasInitial {
		return errs.TemplateDefinition(b.name(), "[ERR S5] mandatory default operator requires a value")
	}

	return nil
}

func (b *fieldBase) indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error {
	if !b.op.UsesDictionary() {
		return nil
	}
	if b.dictName != "" {
		dictName = b.dictName
	}
	key, keyNs := b.key, b.keyNs
	if key == "" {
		key, keyNs = b.identity.LocalName, b.identity.Namespace
	}

	index, err := ix.Index(dictName, typeName, typeNs, key, keyNs)
	if err != nil {
		return errs.TemplateDefinition(b.name(), "%v", err)
	}
	b.dictIndex = index

	return nil
}

// previous reads the dictionary slot of the field and rejects values of a
// different type stored under a shared key.
func (b *fieldBase) previous(ctx *Context) (field.Field, dictionary.Status, error) {
	v, status := ctx.dict.Get(b.dictIndex)
	if status == dictionary.Defined && v.Type() != b.typ {
		return v, status, ctx.reportFatal("[ERR D4]", b.name(),
			fmt.Sprintf("dictionary holds a %s value", v.Type()))
	}

	return v, status, nil
}

func (b *fieldBase) store(ctx *Context, v field.Field) {
	ctx.dict.Set(b.dictIndex, v)
}

func (b *fieldBase) storeNull(ctx *Context) {
	ctx.dict.SetNull(b.dictIndex)
}

// lookup finds the field's value in fs; present is false for missing and null values.
func (b *fieldBase) lookup(fs *field.FieldSet) (field.Field, bool) {
	v, ok := fs.Get(b.name())
	if !ok || v.IsNull() {
		return field.Null(b.typ), false
	}

	return v, true
}

func (b *fieldBase) missingMandatory(ctx *Context) error {
	return ctx.reportFatal("[ERR U01]", b.name(), "mandatory field not present")
}

// wireError attaches the field name to a primitive decode failure.
func (b *fieldBase) wireError(err error) error {
	return fmt.Errorf("field %s: %w", b.name(), err)
}
