package field

// Identity names a field. It is a small immutable value and is copied, not
// shared, wherever a field is stored or looked up.
type Identity struct {
	LocalName string
	Namespace string
	// ID is the application identifier, e.g. the FIX tag number. May be empty.
	ID        string
	Mandatory bool
}

// NewIdentity creates an Identity for a mandatory field.
func NewIdentity(localName, namespace string) Identity {
	return Identity{LocalName: localName, Namespace: namespace, Mandatory: true}
}

// Name returns the namespace-qualified name used for field lookup.
func (id Identity) Name() string {
	if id.Namespace == "" {
		return id.LocalName
	}

	return id.Namespace + "::" + id.LocalName
}

// Equal compares qualified names, and ids when both sides carry one.
func (id Identity) Equal(other Identity) bool {
	if id.LocalName != other.LocalName || id.Namespace != other.Namespace {
		return false
	}
	if id.ID != "" && other.ID != "" {
		return id.ID == other.ID
	}

	return true
}

// Optional returns a copy of the identity with Mandatory cleared.
func (id Identity) Optional() Identity {
	id.Mandatory = false
	return id
}
