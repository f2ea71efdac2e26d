package collision

import (
	"github.com/objectcomputing/quickfast/errs"
)

// Tracker interns dictionary keys and assigns each distinct key a dense
// index in first-seen order.
//
// Keys are found by their 64-bit hash first. Two different keys that share a
// hash are both kept: the later one is resolved through an exact-name side
// table and the collision flag is raised.
type Tracker struct {
	byHash       map[uint64]int // Hash → index of the first key seen with that hash
	spill        map[string]int // Keys whose hash was already taken by another key
	names        []string       // Index → key
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byHash: make(map[uint64]int),
		spill:  make(map[string]int),
		names:  make([]string, 0),
	}
}

// Intern returns the index of key, assigning the next free index when the
// key has not been seen before.
//
// Parameters:
//   - key: Scope-qualified dictionary key, must not be empty
//   - hash: Hash of key
//
// Returns:
//   - int: Index of the key
//   - bool: True when the key was added by this call
//   - error: ErrEmptyKey for an empty key
func (t *Tracker) Intern(key string, hash uint64) (int, bool, error) {
	if key == "" {
		return 0, false, errs.ErrEmptyKey
	}
	if index, ok := t.Lookup(key, hash); ok {
		return index, false, nil
	}

	index := len(t.names)
	t.names = append(t.names, key)
	if _, taken := t.byHash[hash]; taken {
		t.hasCollision = true
		t.spill[key] = index
	} else {
		t.byHash[hash] = index
	}

	return index, true, nil
}

// Lookup returns the index of a key interned earlier.
func (t *Tracker) Lookup(key string, hash uint64) (int, bool) {
	if index, ok := t.byHash[hash]; ok && t.names[index] == key {
		return index, true
	}
	index, ok := t.spill[key]

	return index, ok
}

// HasCollision returns true if two interned keys share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the interned keys in index order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of interned keys.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset forgets every key, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.byHash)
	clear(t.spill)
	t.names = t.names[:0]
	t.hasCollision = false
}
