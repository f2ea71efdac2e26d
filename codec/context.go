package codec

import (
	"context"
	"fmt"

	"github.com/objectcomputing/quickfast/dictionary"
	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/internal/options"
)

// Context is the per-stream state shared by every field of every message:
// the dictionary, the template id of the previous message and the error
// policy.
type Context struct {
	registry   *Registry
	dict       *dictionary.Dictionary
	templateID uint32
	strict     bool
	verbose    bool
	tracer     func(line string)
	ctx        context.Context
}

func newContext(registry *Registry, opts ...Option) (*Context, error) {
	if registry == nil || !registry.Finalized() {
		return nil, errs.ErrRegistryNotFinalized
	}

	c := &Context{
		registry: registry,
		dict:     dictionary.New(registry.DictionarySize()),
		strict:   true,
		ctx:      context.Background(),
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Registry returns the template registry.
func (c *Context) Registry() *Registry {
	return c.registry
}

// Dictionary returns the live dictionary.
func (c *Context) Dictionary() *dictionary.Dictionary {
	return c.dict
}

// TemplateID returns the template id of the last message.
func (c *Context) TemplateID() uint32 {
	return c.templateID
}

// SetTemplateID replaces the remembered template id.
func (c *Context) SetTemplateID(id uint32) {
	c.templateID = id
}

// Strict reports whether strict mode is enabled.
func (c *Context) Strict() bool {
	return c.strict
}

// Verbose reports whether tracing is enabled.
func (c *Context) Verbose() bool {
	return c.verbose
}

// Reset clears every dictionary entry. When resetTemplateID is true the
// remembered template id is cleared too.
func (c *Context) Reset(resetTemplateID bool) {
	c.dict.Reset()
	if resetTemplateID {
		c.templateID = 0
	}
}

func (c *Context) resetDictionaries(templateID uint32, reason string) {
	c.dict.Reset()
	emitReset(c.ctx, templateID, reason)
	c.tracef("dictionaries reset: %s", reason)
}

// reportWarning records a condition that never fails the message.
func (c *Context) reportWarning(code, fieldName, msg string) {
	emitWarning(c.ctx, code, fieldName, msg)
	c.tracef("warning %s %s: %s", code, fieldName, msg)
}

// reportError fails the message in strict mode and warns otherwise.
func (c *Context) reportError(code, fieldName, msg string) error {
	if c.strict {
		return errs.Encoding(code, fieldName, "%s", msg)
	}
	c.reportWarning(code, fieldName, msg)

	return nil
}

// reportFatal always fails the message.
func (c *Context) reportFatal(code, fieldName, msg string) error {
	return errs.Encoding(code, fieldName, "%s", msg)
}

// reportOverflow fails the message in strict mode; otherwise the truncated
// value is kept and an overflow event is emitted.
func (c *Context) reportOverflow(code, fieldName, msg string) error {
	if c.strict {
		return errs.Overflow(code, fieldName, "%s", msg)
	}
	emitOverflow(c.ctx, code, fieldName, msg)
	c.tracef("overflow %s %s: %s", code, fieldName, msg)

	return nil
}

// checkFlags applies the error policy to the anomalies of a decoded integer.
func (c *Context) checkFlags(fieldName string, flags encoding.Flags) error {
	if flags.Overflow() {
		if err := c.reportOverflow("[ERR R4]", fieldName, "integer does not fit its field width"); err != nil {
			return err
		}
	}
	if flags.Overlong() {
		return c.reportError("[ERR R6]", fieldName, "overlong integer encoding")
	}

	return nil
}

func (c *Context) tracef(format string, args ...any) {
	if !c.verbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	emitTrace(c.ctx, line)
	if c.tracer != nil {
		c.tracer(line)
	}
}

// traceFunc returns a tracer for presence maps, or nil when tracing is off.
func (c *Context) traceFunc() func(string) {
	if !c.verbose {
		return nil
	}

	return func(line string) { c.tracef("%s", line) }
}
