// Package dictionary holds the per-stream operator state: the last value seen
// for every dictionary key used by copy, increment, delta and tail fields.
//
// Keys are resolved to dense integer indices when the template registry is
// finalized, so a Dictionary is a flat slice addressed by index. Each slot is
// either undefined (never assigned), null (assigned an absent value) or
// defined.
package dictionary

import "github.com/objectcomputing/quickfast/field"

// Status is the state of a dictionary slot.
type Status uint8

const (
	Undefined Status = iota // Undefined: the slot was never assigned.
	Null                    // Null: the slot holds an absent value.
	Defined                 // Defined: the slot holds a value.
)

func (s Status) String() string {
	switch s {
	case Null:
		return "null"
	case Defined:
		return "defined"
	default:
		return "undefined"
	}
}

type entry struct {
	value  field.Field
	status Status
}

// Dictionary is an index-addressed store of field values.
type Dictionary struct {
	entries []entry
}

// New creates a dictionary with size undefined slots.
func New(size int) *Dictionary {
	return &Dictionary{entries: make([]entry, size)}
}

// Size returns the number of slots.
func (d *Dictionary) Size() int {
	return len(d.entries)
}

// Get returns the value and status of a slot. Out of range indices read as undefined.
func (d *Dictionary) Get(index int) (field.Field, Status) {
	if index < 0 || index >= len(d.entries) {
		return field.Field{}, Undefined
	}
	e := d.entries[index]

	return e.value, e.status
}

// Set replaces the value of a slot; a null field marks the slot null.
func (d *Dictionary) Set(index int, value field.Field) {
	d.ensure(index)
	status := Defined
	if value.IsNull() {
		status = Null
	}
	d.entries[index] = entry{value: value, status: status}
}

// SetNull marks a slot as holding an absent value.
func (d *Dictionary) SetNull(index int) {
	d.ensure(index)
	d.entries[index] = entry{status: Null}
}

// Reset returns every slot to undefined.
func (d *Dictionary) Reset() {
	clear(d.entries)
}

func (d *Dictionary) ensure(index int) {
	if index >= len(d.entries) {
		grown := make([]entry, index+1)
		copy(grown, d.entries)
		d.entries = grown
	}
}
