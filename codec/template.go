package codec

import (
	"fmt"

	"github.com/objectcomputing/quickfast/errs"
)

// ResetTemplateID is the id of the FAST session control reset template. A
// message carrying it has no fields and resets every dictionary.
const ResetTemplateID uint32 = 120

type finalizeState uint8

const (
	notFinalized finalizeState = iota
	finalizing
	finalized
)

// Template is a top-level segment identified by a numeric id and a name.
type Template struct {
	SegmentBody
	id     uint32
	name   string
	ns     string
	reset  bool
	ignore bool
	state  finalizeState
}

// NewTemplate creates an empty template. Its presence map always carries the
// template id bit first.
func NewTemplate(id uint32, name, namespace string) *Template {
	return &Template{
		SegmentBody: SegmentBody{initialBits: 1},
		id:          id,
		name:        name,
		ns:          namespace,
	}
}

// ID returns the template id.
func (t *Template) ID() uint32 { return t.id }

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Namespace returns the template namespace.
func (t *Template) Namespace() string { return t.ns }

// QualifiedName returns the namespace-qualified template name.
func (t *Template) QualifiedName() string { return qualify(t.name, t.ns) }

// SetReset makes every use of the template clear the dictionaries first.
func (t *Template) SetReset(reset bool) *Template {
	t.reset = reset
	return t
}

// Reset reports whether the template clears the dictionaries.
func (t *Template) Reset() bool { return t.reset }

// SetIgnore marks messages of this template as of no interest to the
// application. They are still decoded, so dictionaries stay in step, but are
// not delivered.
func (t *Template) SetIgnore(ignore bool) *Template {
	t.ignore = ignore
	return t
}

// Ignore reports whether decoded messages are discarded.
func (t *Template) Ignore() bool { return t.ignore }

// Add appends an instruction and returns the template for chaining.
func (t *Template) Add(in Instruction) *Template {
	t.SegmentBody.Add(in)
	return t
}

func (t *Template) finalize(r *Registry) error {
	switch t.state {
	case finalized:
		return nil
	case finalizing:
		return errs.TemplateDefinition(t.QualifiedName(), "template %d references itself", t.id)
	}

	t.state = finalizing
	if err := t.SegmentBody.finalize(r, nil); err != nil {
		t.state = notFinalized
		return fmt.Errorf("template %d (%s): %w", t.id, t.QualifiedName(), err)
	}
	t.state = finalized

	return nil
}

func (t *Template) String() string {
	return fmt.Sprintf("template %d %s", t.id, t.QualifiedName())
}

func qualify(name, namespace string) string {
	if namespace == "" {
		return name
	}

	return namespace + "::" + name
}
