package codec

import (
	"fmt"
	"strings"
)

// Op is a FAST field operator.
type Op uint8

const (
	Nop Op = iota
	Constant
	Default
	Copy
	Increment
	Delta
	Tail
)

// String returns the operator name as written in template files.
func (op Op) String() string {
	switch op {
	case Nop:
		return "nop"
	case Constant:
		return "constant"
	case Default:
		return "default"
	case Copy:
		return "copy"
	case Increment:
		return "increment"
	case Delta:
		return "delta"
	case Tail:
		return "tail"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// ParseOp converts an operator name to an Op. "none" and "" mean Nop.
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(name) {
	case "", "nop", "none":
		return Nop, nil
	case "constant":
		return Constant, nil
	case "default":
		return Default, nil
	case "copy":
		return Copy, nil
	case "increment":
		return Increment, nil
	case "delta":
		return Delta, nil
	case "tail":
		return Tail, nil
	default:
		return Nop, fmt.Errorf("unknown field operator %q", name)
	}
}

// UsesPresenceMapBit reports whether a field with this operator owns a bit in
// the presence map of its segment.
func (op Op) UsesPresenceMapBit(mandatory bool) bool {
	switch op {
	case Constant:
		return !mandatory
	case Default, Copy, Increment, Tail:
		return true
	default:
		return false
	}
}

// UsesDictionary reports whether the operator reads or writes dictionary state.
func (op Op) UsesDictionary() bool {
	switch op {
	case Copy, Increment, Delta, Tail:
		return true
	default:
		return false
	}
}
