// Package pmap implements the FAST presence map: a stop-bit encoded bit vector
// that tells the decoder which optional or stateful fields of a segment are
// transmitted.
//
// Bits are stored seven per byte, most significant first, in the same layout
// they have on the wire. A PresenceMap is used as a sequential cursor: decoders
// call CheckNextField once per pmap-using field, encoders call SetNextField and
// finally Encode.
package pmap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
)

const (
	startByteMask = 0x40
	bitsPerByte   = 7
)

// PresenceMap is a bit vector with a read/write cursor.
type PresenceMap struct {
	bits    []byte
	bytePos int
	mask    byte
	trace   func(msg string)
}

// New creates a presence map sized for bitCount bits. The map grows on demand,
// so bitCount is a capacity hint.
func New(bitCount int) *PresenceMap {
	pm := &PresenceMap{}
	pm.Reset(bitCount)

	return pm
}

// Reset clears every bit, resizes the map for bitCount bits and rewinds the cursor.
func (pm *PresenceMap) Reset(bitCount int) {
	n := (bitCount + bitsPerByte - 1) / bitsPerByte
	if n < 1 {
		n = 1
	}
	if cap(pm.bits) < n {
		pm.bits = make([]byte, n)
	} else {
		pm.bits = pm.bits[:n]
		clear(pm.bits)
	}
	pm.Rewind()
}

// SetTracer installs a callback that receives a line per bit checked or set.
// A nil tracer disables tracing.
func (pm *PresenceMap) SetTracer(trace func(msg string)) {
	pm.trace = trace
}

// Rewind moves the cursor back to bit 0 without touching the bits.
func (pm *PresenceMap) Rewind() {
	pm.bytePos = 0
	pm.mask = startByteMask
}

// Decode replaces the contents of the map with the next presence map from r
// and rewinds the cursor.
//
// Returns:
//   - error: an ErrEncoding [ERR U03] CodecError when r runs out of data
func (pm *PresenceMap) Decode(r encoding.ByteReader) error {
	pm.bits = pm.bits[:0]
	for {
		b, ok := r.NextByte()
		if !ok {
			return errs.Encoding("[ERR U03]", "", "EOF while decoding presence map")
		}
		pm.bits = append(pm.bits, b&encoding.DataBits)
		if b&encoding.StopBit != 0 {
			break
		}
	}
	pm.Rewind()

	if pm.trace != nil {
		pm.trace(fmt.Sprintf("pmap[%d]<- % x", len(pm.bits), pm.bits))
	}

	return nil
}

// CheckNextField consumes the bit under the cursor. Bits past the end of a
// decoded map read as false.
func (pm *PresenceMap) CheckNextField() bool {
	if pm.bytePos >= len(pm.bits) {
		if pm.trace != nil {
			pm.trace(fmt.Sprintf("check pmap[%d] past end F", pm.position()))
		}
		pm.advance()

		return false
	}

	result := pm.bits[pm.bytePos]&pm.mask != 0
	if pm.trace != nil {
		pm.trace(fmt.Sprintf("check pmap[%d] %s", pm.position(), flag(result)))
	}
	pm.advance()

	return result
}

// CheckSpecificField reads an arbitrary bit without moving the cursor.
func (pm *PresenceMap) CheckSpecificField(bit int) bool {
	bytePos := bit / bitsPerByte
	if bit < 0 || bytePos >= len(pm.bits) {
		return false
	}
	mask := byte(startByteMask) >> uint(bit%bitsPerByte) //nolint:gosec

	return pm.bits[bytePos]&mask != 0
}

// SetNextField writes present into the bit under the cursor and advances.
func (pm *PresenceMap) SetNextField(present bool) {
	for pm.bytePos >= len(pm.bits) {
		pm.bits = append(pm.bits, 0)
	}
	if present {
		pm.bits[pm.bytePos] |= pm.mask
	} else {
		pm.bits[pm.bytePos] &^= pm.mask
	}
	if pm.trace != nil {
		pm.trace(fmt.Sprintf("set pmap[%d] %s", pm.position(), flag(present)))
	}
	pm.advance()
}

func (pm *PresenceMap) advance() {
	pm.mask >>= 1
	if pm.mask == 0 {
		pm.mask = startByteMask
		pm.bytePos++
	}
}

// position returns the bit number under the cursor.
func (pm *PresenceMap) position() int {
	n := pm.bytePos * bitsPerByte
	for m := byte(startByteMask); m != pm.mask && m != 0; m >>= 1 {
		n++
	}

	return n
}

// EncodeBytesNeeded returns the number of bytes Encode will write.
func (pm *PresenceMap) EncodeBytesNeeded() int {
	return pm.lastByte() + 1
}

// lastByte returns the index of the last byte holding a set bit among the
// bytes written so far, or 0 when none is set.
func (pm *PresenceMap) lastByte() int {
	last := pm.bytePos
	if pm.mask == startByteMask {
		last--
	}
	if last >= len(pm.bits) {
		last = len(pm.bits) - 1
	}
	for last > 0 && pm.bits[last] == 0 {
		last--
	}
	if last < 0 {
		last = 0
	}

	return last
}

// Encode writes the bits set so far to w. Trailing all-zero bytes are dropped
// and the stop bit is set on the last byte written; an empty map encodes as a
// single 0x80.
func (pm *PresenceMap) Encode(w encoding.ByteWriter) {
	if len(pm.bits) == 0 {
		pm.bits = append(pm.bits, 0)
	}

	last := pm.lastByte()
	for i := 0; i < last; i++ {
		w.PutByte(pm.bits[i] & encoding.DataBits)
	}
	w.PutByte(pm.bits[last] | encoding.StopBit)

	if pm.trace != nil {
		pm.trace(fmt.Sprintf("pmap[%d]-> %s", last+1, pm.String()))
	}
}

// AppendEncoded appends the encoded map to dst.
func (pm *PresenceMap) AppendEncoded(dst []byte) []byte {
	w := appender{dst: dst}
	pm.Encode(&w)

	return w.dst
}

type appender struct {
	dst []byte
}

func (a *appender) PutByte(b byte) { a.dst = append(a.dst, b) }

// SetRaw loads the map from raw 7-bit data bytes (no stop bit handling) and
// rewinds the cursor.
func (pm *PresenceMap) SetRaw(data []byte) {
	pm.bits = append(pm.bits[:0], data...)
	pm.Rewind()
}

// Raw returns the data bytes of the map. The slice aliases internal storage.
func (pm *PresenceMap) Raw() []byte {
	return pm.bits
}

// Equal reports whether both maps hold the same bits and cursor position.
func (pm *PresenceMap) Equal(other *PresenceMap) bool {
	if pm.bytePos != other.bytePos || pm.mask != other.mask {
		return false
	}

	return bytes.Equal(trimZero(pm.bits), trimZero(other.bits))
}

func trimZero(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}

	return b[:n]
}

// String renders the bits as T/f characters, seven per byte.
func (pm *PresenceMap) String() string {
	var sb strings.Builder
	for i, b := range pm.bits {
		if i > 0 {
			sb.WriteByte(' ')
		}
		for m := byte(startByteMask); m != 0; m >>= 1 {
			if b&m != 0 {
				sb.WriteByte('T')
			} else {
				sb.WriteByte('f')
			}
		}
	}

	return sb.String()
}

func flag(b bool) string {
	if b {
		return "T"
	}

	return "F"
}
