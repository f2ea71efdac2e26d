package codec

import (
	"strconv"
	"strings"

	"github.com/objectcomputing/quickfast/internal/collision"
	"github.com/objectcomputing/quickfast/internal/hash"
)

// Dictionary scope names recognised by DictionaryIndexer. Any other name
// selects a user-defined dictionary shared by every template that names it.
const (
	DictionaryGlobal   = "global"
	DictionaryTemplate = "template"
	DictionaryType     = "type"
)

// DictionaryIndexer assigns dictionary slots to field keys while a registry
// is finalized. Keys that resolve to the same scope-qualified name share one
// slot, so fields in different templates can read each other's previous
// values.
//
// Scope rules:
//   - global (or empty): keyed by key namespace and key
//   - template: as global, but private to the template being indexed
//   - type: keyed by application type, its namespace, key namespace and key
//   - any other name: keyed by the dictionary name, key namespace and key
type DictionaryIndexer struct {
	keys     *collision.Tracker
	template int
}

// NewDictionaryIndexer creates an indexer with no assigned slots.
func NewDictionaryIndexer() *DictionaryIndexer {
	return &DictionaryIndexer{keys: collision.NewTracker()}
}

// NewTemplate starts a new template scope; template-scoped keys seen so far
// are no longer reachable.
func (ix *DictionaryIndexer) NewTemplate() {
	ix.template++
}

// Index returns the slot for a key, assigning the next free slot on first use.
func (ix *DictionaryIndexer) Index(dictName, typeName, typeNs, key, keyNs string) (int, error) {
	var b strings.Builder
	switch dictName {
	case "", DictionaryGlobal:
		b.WriteString("g\t")
	case DictionaryTemplate:
		b.WriteString("t")
		b.WriteString(strconv.Itoa(ix.template))
		b.WriteByte('\t')
	case DictionaryType:
		b.WriteString("y\t")
		b.WriteString(typeNs)
		b.WriteByte('\t')
		b.WriteString(typeName)
		b.WriteByte('\t')
	default:
		b.WriteString("n\t")
		b.WriteString(dictName)
		b.WriteByte('\t')
	}
	b.WriteString(keyNs)
	b.WriteByte('\t')
	b.WriteString(key)

	qualified := b.String()
	index, _, err := ix.keys.Intern(qualified, hash.ID(qualified))

	return index, err
}

// Size returns the number of slots assigned so far.
func (ix *DictionaryIndexer) Size() int {
	return ix.keys.Count()
}

// HasCollision reports whether two distinct keys hashed alike. Slots stay
// distinct either way.
func (ix *DictionaryIndexer) HasCollision() bool {
	return ix.keys.HasCollision()
}
