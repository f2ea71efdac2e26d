package compress

// NoOpCompressor stores capture blocks as-is.
//
// It is the codec of captures written with compression "none", which keeps
// the framed messages readable with a hex dump.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates the pass-through codec.
//
// Returns:
//   - NoOpCompressor: Codec whose Compress and Decompress return their input
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself.
//
// The result aliases data, so the capture writer must finish writing the
// block before it reuses its staging buffer.
//
// Parameters:
//   - data: Framed messages of one block
//
// Returns:
//   - []byte: data, not a copy
//   - error: Always nil
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself.
//
// Parameters:
//   - data: Stored block payload
//
// Returns:
//   - []byte: data, not a copy
//   - error: Always nil
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
