package codec

import (
	"time"

	"github.com/objectcomputing/quickfast/encoding"
	"github.com/objectcomputing/quickfast/field"
	"github.com/objectcomputing/quickfast/pmap"
	"github.com/objectcomputing/quickfast/stream"
)

// Encoder turns field sets into FAST messages. Like Decoder it owns the state
// of one stream.
//
// Presence maps precede the fields they govern but are only known once those
// fields are encoded, so every segment reserves a destination buffer for its
// presence map, encodes the body into the following buffers and then fills
// the reserved one.
type Encoder struct {
	ctx *Context
}

// NewEncoder creates an encoder for a finalized registry.
func NewEncoder(registry *Registry, opts ...Option) (*Encoder, error) {
	ctx, err := newContext(registry, opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{ctx: ctx}, nil
}

// Context returns the encoder's stream state.
func (e *Encoder) Context() *Context {
	return e.ctx
}

// Reset clears the dictionaries and the remembered template id.
func (e *Encoder) Reset() {
	e.ctx.Reset(true)
}

// EncodeMessage encodes fs with the given template and marks the end of the
// message in dst.
//
// On error the bytes already written for the message are left in dst and the
// destination should be reset.
func (e *Encoder) EncodeMessage(dst *stream.Destination, templateID uint32, fs *field.FieldSet) error {
	start := time.Now()
	before := dst.Len()

	t, ok := e.ctx.registry.Template(templateID)
	if !ok {
		err := unknownTemplate(templateID)
		emitEncodeComplete(e.ctx.ctx, templateID, 0, time.Since(start), err)

		return err
	}

	err := e.encodeSegment(dst, t, fs)
	if err == nil {
		dst.EndMessage()
	}
	emitEncodeComplete(e.ctx.ctx, templateID, dst.Len()-before, time.Since(start), err)

	return err
}

// EncodeReset writes a session control reset message and resets the
// encoder's own dictionaries to match the receiver.
func (e *Encoder) EncodeReset(dst *stream.Destination) {
	pm := pmap.New(1)
	pm.SetNextField(true)
	dst.StartBuffer()
	pm.Encode(dst)
	encoding.PutUnsigned(dst, uint64(ResetTemplateID))
	dst.StartBuffer()
	dst.EndMessage()

	e.ctx.templateID = ResetTemplateID
	e.ctx.resetDictionaries(ResetTemplateID, "session control reset")
}

func (e *Encoder) encodeSegment(dst *stream.Destination, t *Template, fs *field.FieldSet) error {
	ctx := e.ctx
	if t.reset {
		ctx.resetDictionaries(t.id, "template reset")
	}

	pm := pmap.New(t.pmapBits)
	pm.SetTracer(ctx.traceFunc())
	header := dst.StartBuffer()
	dst.StartBuffer()

	if t.id == ctx.templateID {
		pm.SetNextField(false)
	} else {
		pm.SetNextField(true)
		encoding.PutUnsigned(dst, uint64(t.id))
		ctx.templateID = t.id
	}
	ctx.tracef("template id %d", t.id)

	if err := e.EncodeSegmentBody(dst, pm, &t.SegmentBody, fs); err != nil {
		return err
	}

	return e.writePresenceMap(dst, header, pm)
}

// EncodeGroup encodes a group or sequence entry segment together with its
// own presence map, if it has one.
func (e *Encoder) EncodeGroup(dst *stream.Destination, segment *SegmentBody, fs *field.FieldSet) error {
	pm := pmap.New(segment.pmapBits)
	pm.SetTracer(e.ctx.traceFunc())
	if segment.pmapBits == 0 {
		return e.EncodeSegmentBody(dst, pm, segment, fs)
	}

	header := dst.StartBuffer()
	dst.StartBuffer()
	if err := e.EncodeSegmentBody(dst, pm, segment, fs); err != nil {
		return err
	}

	return e.writePresenceMap(dst, header, pm)
}

// writePresenceMap fills the reserved header buffer and opens a fresh buffer
// so that whatever follows lands after the segment body.
func (e *Encoder) writePresenceMap(dst *stream.Destination, header stream.BufferHandle, pm *pmap.PresenceMap) error {
	if err := dst.SelectBuffer(header); err != nil {
		return err
	}
	pm.Encode(dst)
	dst.StartBuffer()

	return nil
}

// EncodeSegmentBody encodes the instructions of segment in order, taking
// values from fs and setting bits in pm.
func (e *Encoder) EncodeSegmentBody(dst *stream.Destination, pm *pmap.PresenceMap, segment *SegmentBody, fs *field.FieldSet) error {
	for i, in := range segment.instructions {
		e.ctx.tracef("encode instruction[%d]: %s", i, in.Identity().Name())
		if err := in.Encode(dst, pm, e, fs); err != nil {
			return err
		}
	}

	return nil
}
