// Package codec implements the template-driven FAST encoder and decoder.
//
// A Registry holds the compiled templates of a stream. Each Template is a
// SegmentBody: an ordered list of field instructions, each bound to one of the
// seven field operators (Op). Registry.Finalize computes presence map sizes
// and resolves every dictionary key to a stable slot index, after which the
// registry is immutable and may be shared by any number of Decoders and
// Encoders.
//
// Decoders and Encoders own a Context holding the per-stream state: the
// dictionary, the last template id and the strict/verbose switches. A Context
// must not be used by more than one goroutine at a time.
//
// Basic usage:
//
//	reg := codec.NewRegistry()
//	tmpl := codec.NewTemplate(1, "Heartbeat", "")
//	tmpl.Add(codec.NewInteger(format.TypeUInt32, field.NewIdentity("MsgSeqNum", ""), codec.WithOp(codec.Increment)))
//	reg.Add(tmpl)
//	if err := reg.Finalize(); err != nil {
//		return err
//	}
//
//	enc, _ := codec.NewEncoder(reg)
//	dst := stream.NewDestination()
//	err := enc.EncodeMessage(dst, 1, msg)
//
//	dec, _ := codec.NewDecoder(reg)
//	out := field.NewFieldSet(reg.MaxFieldCount())
//	err = dec.DecodeMessage(stream.NewBufferSource(dst.Bytes()), out)
package codec
