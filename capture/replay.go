package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/objectcomputing/quickfast/codec"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/stream"
)

// Replay decodes every message of r with dec and passes it to fn.
//
// The field set handed to fn is reused for the next message. Messages that
// deliver no fields, such as session resets and messages of ignored
// templates, reach fn as empty field sets. Replay stops at the first error
// from r, dec or fn and returns nil at the end of the capture.
func Replay(r *Reader, dec *codec.Decoder, fn func(*field.FieldSet) error) error {
	registry := dec.Context().Registry()
	if fp := registry.Fingerprint(); r.header.Fingerprint != fp {
		return fmt.Errorf("%w: capture %016x, templates %016x", errs.ErrFingerprint, r.header.Fingerprint, fp)
	}

	fs := field.NewFieldSet(registry.MaxFieldCount())
	src := stream.NewBufferSource(nil)
	for {
		msg, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		src.Reset(msg)
		fs.Reset()
		if err := dec.DecodeMessage(src, fs); err != nil {
			return fmt.Errorf("message %d: %w", r.messages, err)
		}
		if n := src.Remaining(); n != 0 {
			return fmt.Errorf("%w: message %d has %d trailing bytes", errs.ErrInvalidFrame, r.messages, n)
		}
		if err := fn(fs); err != nil {
			return err
		}
	}
}
