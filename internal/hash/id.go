// Package hash wraps xxHash64 for dictionary keys, registry fingerprints and
// capture block checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of a byte slice.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest accumulates a hash over a sequence of strings. Each part is
// terminated by a zero byte so ("ab", "c") and ("a", "bc") differ.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// WriteString adds one part.
func (d *Digest) WriteString(part string) {
	_, _ = d.d.WriteString(part)
	_, _ = d.d.Write([]byte{0})
}

// Sum64 returns the hash of the parts written so far.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
