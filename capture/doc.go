// Package capture records FAST message streams to files and plays them back.
//
// A capture starts with a fixed 32-byte header followed by blocks. Each
// block holds consecutive encoded messages, each prefixed with its stop-bit
// encoded length, compressed as a whole with the codec named in the header.
//
// File layout:
//
//	+--------------------------------------------+
//	| Header (32 bytes)                          |
//	+--------------------------------------------+
//	| Block header (16 bytes)                    |
//	|   raw length, packed length, xxhash64      |
//	| Packed payload                             |
//	+--------------------------------------------+
//	| ...                                        |
//	+--------------------------------------------+
//
// The header records the fingerprint of the template registry the messages
// were encoded with, so a capture can only be replayed through a decoder
// built from the same templates. Block checksums are computed over the
// uncompressed payload.
//
// Writing:
//
//	w, err := capture.NewWriter(f, registry.Fingerprint(), capture.WithCompression(format.CompressionZstd))
//	for _, msg := range messages {
//	    err = w.WriteMessage(msg)
//	}
//	err = w.Close()
//
// Replaying:
//
//	r, err := capture.NewReader(f)
//	err = capture.Replay(r, decoder, func(fs *field.FieldSet) error {
//	    return handle(fs)
//	})
package capture
