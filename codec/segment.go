package codec

import (
	"fmt"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
)

// SegmentBody is an ordered list of field instructions: the body of a
// template, a group or a sequence entry. Instruction order is wire order.
//
// The presence map bit count and the field count are computed by
// Registry.Finalize and must not be read before it.
type SegmentBody struct {
	instructions []Instruction
	length       *IntegerInstruction
	appType      string
	appTypeNs    string
	dictName     string
	initialBits  int
	pmapBits     int
	fieldCount   int
}

// NewSegmentBody creates the empty body of a group or sequence.
func NewSegmentBody() *SegmentBody {
	return &SegmentBody{}
}

// Add appends an instruction and returns the segment for chaining.
func (s *SegmentBody) Add(in Instruction) *SegmentBody {
	s.instructions = append(s.instructions, in)
	return s
}

// Instructions returns the instructions in wire order.
func (s *SegmentBody) Instructions() []Instruction {
	return s.instructions
}

// Len returns the number of instructions.
func (s *SegmentBody) Len() int {
	return len(s.instructions)
}

// Instruction returns the instruction for a qualified field name.
func (s *SegmentBody) Instruction(name string) (Instruction, bool) {
	for _, in := range s.instructions {
		if in.Identity().Name() == name {
			return in, true
		}
	}

	return nil, false
}

// SetLengthInstruction sets the instruction that carries the entry count of
// a sequence. It must be an unsigned 32-bit integer and must be set before any
// other instruction is added.
func (s *SegmentBody) SetLengthInstruction(in *IntegerInstruction) error {
	switch {
	case s.length != nil:
		return errs.TemplateDefinition(in.name(), "only one length instruction may appear in a segment")
	case len(s.instructions) > 0:
		return errs.TemplateDefinition(in.name(), "length instruction must come first")
	case in.typ != format.TypeUInt32:
		return errs.TemplateDefinition(in.name(), "length instruction must be uInt32, got %s", in.typ)
	}
	s.length = in

	return nil
}

// LengthInstruction returns the sequence length instruction, or nil.
func (s *SegmentBody) LengthInstruction() *IntegerInstruction {
	return s.length
}

// SetApplicationType sets the application type. Segments without one take
// the type of the enclosing segment.
func (s *SegmentBody) SetApplicationType(name, namespace string) *SegmentBody {
	s.appType, s.appTypeNs = name, namespace
	return s
}

// ApplicationType returns the application type name.
func (s *SegmentBody) ApplicationType() string { return s.appType }

// ApplicationTypeNamespace returns the application type namespace.
func (s *SegmentBody) ApplicationTypeNamespace() string { return s.appTypeNs }

// SetDictionaryName sets the dictionary used by instructions that do not
// name one themselves.
func (s *SegmentBody) SetDictionaryName(name string) *SegmentBody {
	s.dictName = name
	return s
}

// DictionaryName returns the segment's dictionary name.
func (s *SegmentBody) DictionaryName() string { return s.dictName }

// PresenceMapBits returns the size of the segment's presence map.
func (s *SegmentBody) PresenceMapBits() int { return s.pmapBits }

// FieldCount returns the number of entries a field set decoded from this
// segment holds, with merged groups counted field by field.
func (s *SegmentBody) FieldCount() int { return s.fieldCount }

func (s *SegmentBody) finalize(r *Registry, parent *SegmentBody) error {
	if parent != nil && s.appType == "" {
		s.appType, s.appTypeNs = parent.appType, parent.appTypeNs
	}

	bits, count := s.initialBits, 0
	for _, in := range s.instructions {
		if in == nil {
			return errs.TemplateDefinition("", "nil instruction in segment")
		}
		if err := in.finalize(r, s); err != nil {
			return err
		}
		bits += in.PresenceMapBits()
		count += in.FieldCount(s)
	}
	s.pmapBits, s.fieldCount = bits, count

	return nil
}

func (s *SegmentBody) indexDictionaries(ix *DictionaryIndexer, dictName, typeName, typeNs string) error {
	if s.dictName != "" {
		dictName = s.dictName
	}
	if s.appType != "" {
		typeName, typeNs = s.appType, s.appTypeNs
	}
	for _, in := range s.instructions {
		if err := in.indexDictionaries(ix, dictName, typeName, typeNs); err != nil {
			return err
		}
	}

	return nil
}

func (s *SegmentBody) String() string {
	return fmt.Sprintf("segment(%s, %d fields, %d pmap bits)", s.appType, len(s.instructions), s.pmapBits)
}
