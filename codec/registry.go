package codec

import (
	"strconv"

	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/internal/hash"
)

// Registry is the set of templates a stream is encoded with.
//
// Templates are added, then Finalize compiles them: presence map sizes and
// field counts are computed bottom-up, static template references are
// resolved and every dictionary key is assigned a slot. After Finalize the
// registry is read-only and may be shared freely between goroutines.
type Registry struct {
	templates     []*Template
	byID          map[uint32]*Template
	byName        map[string]*Template
	finalized     bool
	maxFieldCount int
	maxPmapBits   int
	dictSize      int
	fingerprint   uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint32]*Template),
		byName: make(map[string]*Template),
	}
}

// Add registers a template. Ids and qualified names must be unique, and
// templates cannot be added once the registry is finalized.
func (r *Registry) Add(t *Template) error {
	if r.finalized {
		return errs.TemplateDefinition(t.QualifiedName(), "registry already finalized")
	}
	if _, dup := r.byID[t.id]; dup {
		return errs.TemplateDefinition(t.QualifiedName(), "duplicate template id %d", t.id)
	}
	if t.name != "" {
		if _, dup := r.byName[t.QualifiedName()]; dup {
			return errs.TemplateDefinition(t.QualifiedName(), "duplicate template name")
		}
		r.byName[t.QualifiedName()] = t
	}
	r.byID[t.id] = t
	r.templates = append(r.templates, t)

	return nil
}

// Finalize compiles the registry. It is idempotent.
//
// Returns:
//   - error: The first template definition error; the registry stays unfinalized
func (r *Registry) Finalize() error {
	if r.finalized {
		return nil
	}

	maxFields, maxBits := 0, 0
	for _, t := range r.templates {
		if err := t.finalize(r); err != nil {
			return err
		}
		maxFields = max(maxFields, t.fieldCount)
		maxBits = max(maxBits, t.pmapBits)
	}

	ix := NewDictionaryIndexer()
	for _, t := range r.templates {
		ix.NewTemplate()
		if err := t.indexDictionaries(ix, t.dictName, t.appType, t.appTypeNs); err != nil {
			return err
		}
	}

	r.maxFieldCount, r.maxPmapBits, r.dictSize = maxFields, maxBits, ix.Size()
	r.fingerprint = r.computeFingerprint()
	r.finalized = true

	return nil
}

// computeFingerprint hashes the shape of every template so that a capture
// can be matched to the registry it was recorded with.
func (r *Registry) computeFingerprint() uint64 {
	d := hash.NewDigest()
	for _, t := range r.templates {
		d.WriteString(strconv.FormatUint(uint64(t.id), 10))
		d.WriteString(t.QualifiedName())
		digestSegment(d, &t.SegmentBody)
	}

	return d.Sum64()
}

func digestSegment(d *hash.Digest, s *SegmentBody) {
	d.WriteString(s.appType)
	for _, in := range s.instructions {
		d.WriteString(in.Identity().Name())
		d.WriteString(in.ValueType().String())
		d.WriteString(in.Op().String())
		switch v := in.(type) {
		case *GroupInstruction:
			digestSegment(d, v.segment)
		case *SequenceInstruction:
			digestSegment(d, v.segment)
		}
	}
}

// Finalized reports whether Finalize has completed.
func (r *Registry) Finalized() bool { return r.finalized }

// Template returns the template with the given id.
func (r *Registry) Template(id uint32) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// FindNamed returns the template with the given name and namespace.
func (r *Registry) FindNamed(name, namespace string) (*Template, bool) {
	t, ok := r.byName[qualify(name, namespace)]
	return t, ok
}

// templateForType picks the template that encodes an application type: the
// first whose application type matches, else the template of that name.
func (r *Registry) templateForType(appType, appTypeNs string) (*Template, bool) {
	for _, t := range r.templates {
		if t.appType == appType && t.appTypeNs == appTypeNs {
			return t, true
		}
	}

	return r.FindNamed(appType, appTypeNs)
}

// Templates returns the templates in registration order.
func (r *Registry) Templates() []*Template { return r.templates }

// Len returns the number of templates.
func (r *Registry) Len() int { return len(r.templates) }

// MaxFieldCount returns the largest field count of any template.
func (r *Registry) MaxFieldCount() int { return r.maxFieldCount }

// PresenceMapBits returns the largest presence map of any template.
func (r *Registry) PresenceMapBits() int { return r.maxPmapBits }

// DictionarySize returns the number of dictionary slots.
func (r *Registry) DictionarySize() int { return r.dictSize }

// Fingerprint returns a hash of the template structure.
func (r *Registry) Fingerprint() uint64 { return r.fingerprint }
