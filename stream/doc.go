// Package stream provides the byte-level collaborators of the codec: a Source
// the decoder pulls bytes from, a Destination the encoder pushes bytes into,
// and framing helpers that delimit consecutive messages in a byte stream.
//
// A Destination holds an ordered list of buffers that may be filled out of
// order. The encoder opens the presence map buffer of a segment, then a body
// buffer, writes every field into the body and finally selects the presence
// map buffer again to write the completed map. The materialized output is the
// concatenation of all buffers in the order they were started.
package stream
