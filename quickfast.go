// Package quickfast is a codec for FAST (FIX Adapted for STreaming) market
// data messages.
//
// Templates describe the fields of each message type together with the field
// operators that remove redundancy between consecutive messages. A Registry
// compiles the templates; Decoders and Encoders carry the per-stream state
// (dictionaries and the previous template id) on top of a shared registry.
//
// # Basic Usage
//
// Building templates and encoding a message:
//
//	quote := codec.NewTemplate(1, "Quote", "").
//	    Add(codec.NewInteger(format.TypeUInt32, field.NewIdentity("SeqNum", ""), codec.WithOp(codec.Increment))).
//	    Add(codec.NewDecimal(field.NewIdentity("Px", ""), codec.WithOp(codec.Delta)))
//	registry, _ := quickfast.NewRegistry(quote)
//
//	encoder, _ := quickfast.NewEncoder(registry, nil)
//	dst := stream.NewDestination()
//	_ = encoder.EncodeMessage(dst, 1, fs)
//
// Decoding a byte stream:
//
//	decoder, _ := quickfast.NewDecoder(registry, nil)
//	err := quickfast.DecodeAll(decoder, dst.Bytes(), func(fs *field.FieldSet) error {
//	    fmt.Print(field.FormatString(fs))
//	    return nil
//	})
//
// # Package Structure
//
// This package wraps the most common workflows. The building blocks live in
// their own packages:
//   - codec: templates, instructions, Registry, Decoder and Encoder
//   - field: the value model (Field, FieldSet, Sequence)
//   - stream: byte sources, the buffered destination and message framing
//   - capture: recording and replaying message streams
//   - config: YAML settings
package quickfast

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/objectcomputing/quickfast/capture"
	"github.com/objectcomputing/quickfast/codec"
	"github.com/objectcomputing/quickfast/config"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/stream"
)

// NewRegistry adds the templates to a new registry and finalizes it.
func NewRegistry(templates ...*codec.Template) (*codec.Registry, error) {
	reg := codec.NewRegistry()
	for _, t := range templates {
		if err := reg.Add(t); err != nil {
			return nil, err
		}
	}
	if err := reg.Finalize(); err != nil {
		return nil, err
	}

	return reg, nil
}

// NewDecoder creates a decoder configured by cfg. A nil cfg uses
// config.Default.
func NewDecoder(reg *codec.Registry, cfg *config.Config, opts ...codec.Option) (*codec.Decoder, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	return codec.NewDecoder(reg, append(cfg.DecoderOptions(), opts...)...)
}

// NewEncoder creates an encoder configured by cfg. A nil cfg uses
// config.Default.
func NewEncoder(reg *codec.Registry, cfg *config.Config, opts ...codec.Option) (*codec.Encoder, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	return codec.NewEncoder(reg, append(cfg.EncoderOptions(), opts...)...)
}

// DecodeAll decodes consecutive messages from data until it is exhausted,
// passing each one to fn. The field set is reused between calls.
func DecodeAll(dec *codec.Decoder, data []byte, fn func(*field.FieldSet) error) error {
	src := stream.NewBufferSource(data)
	fs := field.NewFieldSet(dec.Context().Registry().MaxFieldCount())
	for {
		fs.Reset()
		err := dec.DecodeMessage(src, fs)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(fs); err != nil {
			return err
		}
	}
}

// DecodeFramed decodes a stream whose messages are delimited by the header
// settings of cfg, such as a UDP payload log with length prefixes.
func DecodeFramed(dec *codec.Decoder, cfg *config.Config, data []byte, fn func(*field.FieldSet) error) error {
	if cfg == nil {
		cfg = config.Default()
	}
	framer, err := cfg.Framer()
	if err != nil {
		return err
	}

	msgs, err := framer.Split(data)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := DecodeAll(dec, msg, fn); err != nil {
			return err
		}
	}

	return nil
}

// RecordFile encodes every message produced by next into a new capture file
// at path. next returns the template id and field set of the following
// message, or false when there are no more.
func RecordFile(path string, enc *codec.Encoder, cfg *config.Config, next func() (uint32, *field.FieldSet, bool)) (err error) {
	if cfg == nil {
		cfg = config.Default()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := capture.NewWriter(f, enc.Context().Registry().Fingerprint(), cfg.CaptureOptions()...)
	if err != nil {
		return err
	}

	dst := stream.NewDestination()
	defer dst.Release()
	for {
		id, fs, ok := next()
		if !ok {
			break
		}
		dst.Reset()
		if err := enc.EncodeMessage(dst, id, fs); err != nil {
			return fmt.Errorf("record message: %w", err)
		}
		if err := w.WriteDestination(dst); err != nil {
			return err
		}
	}

	return w.Close()
}

// ReplayFile decodes every message of the capture at path. When
// cfg.ResetOnStart is set the decoder starts from empty dictionaries.
func ReplayFile(path string, dec *codec.Decoder, cfg *config.Config, fn func(*field.FieldSet) error) error {
	if cfg == nil {
		cfg = config.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := capture.NewReader(f, capture.WithFingerprint(dec.Context().Registry().Fingerprint()))
	if err != nil {
		return err
	}
	if cfg.ResetOnStart {
		dec.Reset()
	}

	return capture.Replay(r, dec, fn)
}
