// Package errs defines the error values shared by the quickfast packages.
//
// Errors fall into four kinds, each represented by a sentinel that callers match
// with errors.Is:
//   - ErrTemplateDefinition: the template tree is structurally invalid.
//   - ErrEncoding: a runtime wire-format violation while decoding or encoding a message.
//   - ErrOverflow: a value does not fit its declared width.
//   - ErrFieldNotPresent: a value accessor was called on an absent field.
//
// Codec failures are reported as *CodecError, which carries the FAST error code
// and the field that triggered it and unwraps to one of the sentinels above.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateDefinition = errors.New("template definition error")
	ErrEncoding           = errors.New("encoding error")
	ErrOverflow           = errors.New("overflow")
	ErrFieldNotPresent    = errors.New("field not present")

	// ErrUnsupportedConversion is returned by Field accessors on a type mismatch.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrUnexpectedEOF is returned when a byte source runs dry inside a
	// primitive. It matches ErrEncoding as well.
	ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of data", ErrEncoding)
	// ErrUnknownTemplate is returned when a template id or name is not registered.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrRegistryNotFinalized is returned when a registry is used before Finalize.
	ErrRegistryNotFinalized = errors.New("template registry not finalized")
	// ErrEmptyKey is returned when a dictionary key or scope name is empty.
	ErrEmptyKey = errors.New("empty dictionary key")

	// Buffer selection errors for out-of-order destinations.
	ErrInvalidBufferHandle = errors.New("invalid destination buffer handle")

	// Capture file errors.
	ErrInvalidHeaderSize  = errors.New("invalid capture header size")
	ErrInvalidMagicNumber = errors.New("invalid capture magic number")
	ErrInvalidHeaderFlags = errors.New("invalid capture header flags")
	ErrChecksumMismatch   = errors.New("capture block checksum mismatch")
	ErrFingerprint        = errors.New("template registry fingerprint mismatch")
	ErrWriterClosed       = errors.New("capture writer closed")

	// Framing and configuration errors.
	ErrInvalidFrame  = errors.New("invalid message frame")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CodecError describes a failure raised while compiling templates or while
// decoding or encoding a message.
type CodecError struct {
	Kind  error  // One of ErrTemplateDefinition, ErrEncoding, ErrOverflow, ErrFieldNotPresent
	Code  string // FAST error code such as "[ERR D6]", may be empty
	Field string // Qualified name of the field being processed, may be empty
	Msg   string
}

func (e *CodecError) Error() string {
	msg := e.Kind.Error()
	if e.Code != "" {
		msg = e.Code + " " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}

	return msg
}

func (e *CodecError) Unwrap() error {
	return e.Kind
}

// TemplateDefinition builds a CodecError of kind ErrTemplateDefinition.
func TemplateDefinition(field, format string, args ...any) error {
	return &CodecError{Kind: ErrTemplateDefinition, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Encoding builds a CodecError of kind ErrEncoding carrying a FAST error code.
func Encoding(code, field, format string, args ...any) error {
	return &CodecError{Kind: ErrEncoding, Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Overflow builds a CodecError of kind ErrOverflow.
func Overflow(code, field, format string, args ...any) error {
	return &CodecError{Kind: ErrOverflow, Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}
