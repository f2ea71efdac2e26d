package compress

// ZstdCompressor packs capture blocks with Zstandard at the default level.
// It gives the smallest captures and is the configured default.
//
// The backend is chosen at build time: pure Go (klauspost/compress) unless
// the module is built with cgo and the gozstd tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec. Encoders and decoders are
// pooled per backend, so the value itself holds no state and is safe for
// concurrent use.
//
// Returns:
//   - ZstdCompressor: New Zstandard codec
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
