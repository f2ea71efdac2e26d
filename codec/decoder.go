package codec

import (
	"fmt"
	"io"
	"time"

	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// Decoder turns FAST messages into field values. A Decoder owns the stream
// state of one byte stream and must not be shared between goroutines.
type Decoder struct {
	ctx     *Context
	scratch *field.FieldSet
}

// NewDecoder creates a decoder for a finalized registry.
//
// Parameters:
//   - registry: Finalized template registry
//   - opts: Context options such as WithStrict or WithVerbose
//
// Returns:
//   - *Decoder: The decoder
//   - error: ErrRegistryNotFinalized, or an option error
func NewDecoder(registry *Registry, opts ...Option) (*Decoder, error) {
	ctx, err := newContext(registry, opts...)
	if err != nil {
		return nil, err
	}

	return &Decoder{ctx: ctx, scratch: field.NewFieldSet(registry.MaxFieldCount())}, nil
}

// Context returns the decoder's stream state.
func (d *Decoder) Context() *Context {
	return d.ctx
}

// Reset clears the dictionaries and the remembered template id, as at the
// start of a new stream.
func (d *Decoder) Reset() {
	d.ctx.Reset(true)
}

// DecodeMessage decodes one message from src into b.
//
// It returns io.EOF when src is a *stream.BufferSource with no bytes left.
// Messages of an ignored template are decoded but not delivered to b. A
// session control reset message resets the dictionaries and delivers nothing.
func (d *Decoder) DecodeMessage(src stream.Source, b field.MessageBuilder) error {
	if bs, ok := src.(*stream.BufferSource); ok && bs.Remaining() == 0 {
		return io.EOF
	}

	start := time.Now()
	begin := offsetOf(src)
	src.BeginMessage()

	err := d.decodeMessage(src, b)
	emitDecodeComplete(d.ctx.ctx, d.ctx.templateID, offsetOf(src)-begin, time.Since(start), err)

	return err
}

func (d *Decoder) decodeMessage(src stream.Source, b field.MessageBuilder) error {
	pm, t, err := d.decodeHeader(src)
	if err != nil || t == nil {
		return err
	}

	target := b
	if t.ignore {
		d.scratch.Reset()
		target = d.scratch
	}

	return d.DecodeSegmentBody(src, pm, &t.SegmentBody, target)
}

// decodeHeader reads the presence map and the template id and looks the
// template up. A nil template means a session control reset was handled.
func (d *Decoder) decodeHeader(src stream.Source) (*pmap.PresenceMap, *Template, error) {
	ctx := d.ctx
	pm := pmap.New(ctx.registry.PresenceMapBits())
	pm.SetTracer(ctx.traceFunc())

	src.BeginField("PMAP")
	if err := pm.Decode(src); err != nil {
		return nil, nil, err
	}

	if pm.CheckNextField() {
		src.BeginField("templateID")
		id, flags, err := encoding.DecodeUnsigned(src, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("template id: %w", err)
		}
		if err := ctx.checkFlags("templateID", flags); err != nil {
			return nil, nil, err
		}
		ctx.templateID = uint32(id) //nolint:gosec
	}
	id := ctx.templateID
	ctx.tracef("template id %d", id)

	t, ok := ctx.registry.Template(id)
	if !ok {
		if id == ResetTemplateID {
			ctx.resetDictionaries(id, "session control reset")
			return pm, nil, nil
		}

		return nil, nil, unknownTemplate(id)
	}
	if t.reset {
		ctx.resetDictionaries(id, "template reset")
	}

	return pm, t, nil
}

// decodeNestedTemplate decodes the complete message embedded by a dynamic
// template reference and adds it to b as a group.
func (d *Decoder) decodeNestedTemplate(src stream.Source, identity field.Identity, b field.MessageBuilder) error {
	pm, t, err := d.decodeHeader(src)
	if err != nil || t == nil {
		return err
	}

	group := b.StartGroup(identity, t.appType, t.appTypeNs, t.fieldCount)
	if err := d.DecodeSegmentBody(src, pm, &t.SegmentBody, group); err != nil {
		return err
	}
	b.EndGroup(identity, group)

	return nil
}

// DecodeGroup decodes a group or sequence entry segment, reading its presence
// map first when the segment has one.
func (d *Decoder) DecodeGroup(src stream.Source, segment *SegmentBody, b field.MessageBuilder) error {
	pm := pmap.New(segment.pmapBits)
	pm.SetTracer(d.ctx.traceFunc())
	if segment.pmapBits > 0 {
		src.BeginField("PMAP")
		if err := pm.Decode(src); err != nil {
			return err
		}
	}

	return d.DecodeSegmentBody(src, pm, segment, b)
}

// DecodeSegmentBody decodes the instructions of segment in order against an
// already decoded presence map.
func (d *Decoder) DecodeSegmentBody(src stream.Source, pm *pmap.PresenceMap, segment *SegmentBody, b field.MessageBuilder) error {
	b.SetApplicationType(segment.appType, segment.appTypeNs)
	for i, in := range segment.instructions {
		name := in.Identity().Name()
		d.ctx.tracef("decode instruction[%d]: %s", i, name)
		src.BeginField(name)
		if err := in.Decode(src, pm, d, b); err != nil {
			return err
		}
	}

	return nil
}

func unknownTemplate(id uint32) error {
	return fmt.Errorf("%w: %w", errs.ErrUnknownTemplate, errs.Encoding("[ERR D9]", "", "unknown template id %d", id))
}

func offsetOf(src stream.Source) int {
	if o, ok := src.(interface{ Offset() int }); ok {
		return o.Offset()
	}

	return 0
}
