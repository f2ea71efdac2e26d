// Package compress provides the block codecs used by capture files.
//
// A capture groups encoded FAST messages into blocks and compresses each
// block as a whole. FAST messages are already dense, so the gain comes from
// repetition across messages: template ids, presence maps and string values
// that the field operators could not remove.
//
// Supported algorithms:
//   - None: the block is stored as is
//   - Zstd: best ratio, for archival captures
//   - S2: fast with a reasonable ratio
//   - LZ4: fastest decompression, for replay-heavy workloads
//
// Every codec implements Codec:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	packed, err := codec.Compress(block)
//	block, err = codec.Decompress(packed)
//
// Zstd uses the pure Go klauspost/compress implementation by default. Build
// with cgo and the gozstd tag to use the libzstd binding instead; both produce
// standard zstd frames, so captures are interchangeable.
//
// All codecs are stateless values and safe for concurrent use.
package compress
