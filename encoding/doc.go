// Package encoding provides the FAST primitive codec: stop-bit encoded integers,
// self-delimiting ASCII strings and length-prefixed byte runs.
//
// Every primitive is carried in 7-bit groups, one group per byte, most significant
// group first. The high bit of the final byte (the stop bit) marks the end of the
// unit; all preceding bytes have it clear.
//
// # Integers
//
// Unsigned integers use the smallest number of groups that can represent the value:
//
//	300 = 0b1_0010_1100  ->  0x02 0xAC
//
// Signed integers are two's-complement; an extra 0x00 or 0x7F group is prefixed
// when bit 6 of the most significant group would otherwise be read as the wrong sign:
//
//	64   ->  0x00 0xC0
//	-1   ->  0xFF
//
// Nullable integers reserve the single byte 0x80 for null and shift every
// non-negative value up by one, so nullable zero is 0x81.
//
// # Error Reporting
//
// Decoders never fail on an over-wide value. They report it through Flags and
// return the value truncated with two's-complement wraparound, leaving the decision
// between rejecting and tolerating it to the caller's strict-mode setting. The only
// error returned is errs.ErrUnexpectedEOF when the source runs dry mid-unit.
//
// # Sources and Sinks
//
// The codec reads through ByteReader and writes through ByteWriter so it can sit
// directly on top of any stream.Source or stream.Destination. Append* variants
// write into plain byte slices.
package encoding
