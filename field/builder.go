package field

// MessageBuilder receives decoded values. The decoder drives it field by
// field; nested groups and sequence entries get builders of their own.
//
// FieldSet is the in-memory implementation. Other implementations can stream
// values straight into application structures.
type MessageBuilder interface {
	// SetApplicationType records the application type of the segment being decoded.
	SetApplicationType(name, namespace string)
	// ApplicationType returns the name set by SetApplicationType.
	ApplicationType() string
	// AddValue stores one decoded value.
	AddValue(identity Identity, value Field)
	// StartGroup returns a builder for a nested group.
	StartGroup(identity Identity, appType, appTypeNs string, size int) MessageBuilder
	// EndGroup attaches a builder returned by StartGroup.
	EndGroup(identity Identity, group MessageBuilder)
	// StartSequence returns a builder for a sequence of length entries.
	StartSequence(identity Identity, length int) SequenceBuilder
	// EndSequence attaches a builder returned by StartSequence.
	EndSequence(identity Identity, seq SequenceBuilder)
}

// SequenceBuilder collects the entries of one sequence.
type SequenceBuilder interface {
	StartEntry(appType, appTypeNs string, size int) MessageBuilder
	EndEntry(entry MessageBuilder)
}

var (
	_ MessageBuilder  = (*FieldSet)(nil)
	_ SequenceBuilder = (*Sequence)(nil)
)

func (fs *FieldSet) SetApplicationType(name, namespace string) {
	fs.appType, fs.appTypeNs = name, namespace
}

func (fs *FieldSet) AddValue(identity Identity, value Field) {
	fs.Add(identity, value)
}

func (fs *FieldSet) StartGroup(_ Identity, appType, appTypeNs string, size int) MessageBuilder {
	group := NewFieldSet(size)
	group.SetApplicationType(appType, appTypeNs)

	return group
}

func (fs *FieldSet) EndGroup(identity Identity, group MessageBuilder) {
	if g, ok := group.(*FieldSet); ok {
		fs.Add(identity, NewGroup(g))
	}
}

func (fs *FieldSet) StartSequence(_ Identity, length int) SequenceBuilder {
	return NewSequence(length)
}

func (fs *FieldSet) EndSequence(identity Identity, seq SequenceBuilder) {
	if s, ok := seq.(*Sequence); ok {
		fs.Add(identity, NewSequenceField(s))
	}
}

func (s *Sequence) StartEntry(appType, appTypeNs string, size int) MessageBuilder {
	entry := NewFieldSet(size)
	entry.SetApplicationType(appType, appTypeNs)

	return entry
}

func (s *Sequence) EndEntry(entry MessageBuilder) {
	if e, ok := entry.(*FieldSet); ok {
		s.Append(e)
	}
}
