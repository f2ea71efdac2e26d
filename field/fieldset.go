package field

// Entry pairs a field value with the identity it was stored under.
type Entry struct {
	Identity Identity
	Field    Field
}

// FieldSet is an ordered collection of fields: a message, a group or one
// sequence entry. Lookups are by qualified name.
type FieldSet struct {
	entries   []Entry
	appType   string
	appTypeNs string
}

// NewFieldSet creates an empty set with room for capacity fields.
func NewFieldSet(capacity int) *FieldSet {
	return &FieldSet{entries: make([]Entry, 0, capacity)}
}

// Add stores value under identity, replacing an existing field of the same name.
func (fs *FieldSet) Add(identity Identity, value Field) {
	name := identity.Name()
	for i := range fs.entries {
		if fs.entries[i].Identity.Name() == name {
			fs.entries[i] = Entry{Identity: identity, Field: value}
			return
		}
	}
	fs.entries = append(fs.entries, Entry{Identity: identity, Field: value})
}

// Get looks a field up by qualified name.
func (fs *FieldSet) Get(name string) (Field, bool) {
	for i := range fs.entries {
		if fs.entries[i].Identity.Name() == name {
			return fs.entries[i].Field, true
		}
	}

	return Field{}, false
}

// Has reports whether a field with the given name is present.
func (fs *FieldSet) Has(name string) bool {
	_, ok := fs.Get(name)
	return ok
}

// Len returns the number of fields.
func (fs *FieldSet) Len() int {
	return len(fs.entries)
}

// Entries returns the fields in insertion order. The slice aliases internal storage.
func (fs *FieldSet) Entries() []Entry {
	return fs.entries
}

// ApplicationType returns the application type name of the set.
func (fs *FieldSet) ApplicationType() string {
	return fs.appType
}

// ApplicationTypeNamespace returns the namespace of the application type.
func (fs *FieldSet) ApplicationTypeNamespace() string {
	return fs.appTypeNs
}

// Reset removes every field and the application type, keeping capacity.
func (fs *FieldSet) Reset() {
	clear(fs.entries)
	fs.entries = fs.entries[:0]
	fs.appType, fs.appTypeNs = "", ""
}

// Equal compares fields in order, then the application type.
func (fs *FieldSet) Equal(other *FieldSet) bool {
	if fs == nil || other == nil {
		return fs == other
	}
	if len(fs.entries) != len(other.entries) || fs.appType != other.appType {
		return false
	}
	for i := range fs.entries {
		a, b := fs.entries[i], other.entries[i]
		if a.Identity.Name() != b.Identity.Name() || !a.Field.Equal(b.Field) {
			return false
		}
	}

	return true
}

// Sequence is an ordered list of field sets.
type Sequence struct {
	entries []*FieldSet
}

// NewSequence creates an empty sequence with room for capacity entries.
func NewSequence(capacity int) *Sequence {
	return &Sequence{entries: make([]*FieldSet, 0, capacity)}
}

// Append adds an entry.
func (s *Sequence) Append(entry *FieldSet) {
	s.entries = append(s.entries, entry)
}

// Len returns the number of entries.
func (s *Sequence) Len() int {
	return len(s.entries)
}

// At returns entry i.
func (s *Sequence) At(i int) *FieldSet {
	return s.entries[i]
}

// Entries returns all entries. The slice aliases internal storage.
func (s *Sequence) Entries() []*FieldSet {
	return s.entries
}

// Equal compares the entries pairwise.
func (s *Sequence) Equal(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.entries) != len(other.entries) {
		return false
	}
	for i := range s.entries {
		if !s.entries[i].Equal(other.entries[i]) {
			return false
		}
	}

	return true
}
