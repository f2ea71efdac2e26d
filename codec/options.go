package codec

import (
	"context"
	"errors"

	"github.com/objectcomputing/quickfast/internal/options"
)

// Option configures the Context of a Decoder or Encoder.
type Option = options.Option[*Context]

// WithStrict enables or disables strict mode. In strict mode overflowing and
// overlong integers are errors; otherwise they are reported through the
// SignalOverflow and SignalWarning events and decoding continues. The default
// is strict.
func WithStrict(strict bool) Option {
	return options.NoError(func(c *Context) {
		c.strict = strict
	})
}

// WithVerbose enables per-field tracing through SignalTrace.
func WithVerbose(verbose bool) Option {
	return options.NoError(func(c *Context) {
		c.verbose = verbose
	})
}

// WithTracer installs an additional receiver for verbose trace lines.
// It implies WithVerbose(true).
func WithTracer(fn func(line string)) Option {
	return options.NoError(func(c *Context) {
		c.tracer = fn
		c.verbose = fn != nil || c.verbose
	})
}

// WithContext sets the context.Context events are emitted against.
func WithContext(ctx context.Context) Option {
	return options.New(func(c *Context) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		c.ctx = ctx

		return nil
	})
}

// WithTemplateID sets the template id assumed before the first message
// carries one explicitly.
func WithTemplateID(id uint32) Option {
	return options.NoError(func(c *Context) {
		c.templateID = id
	})
}
