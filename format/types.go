package format

type (
	ValueType       uint8
	CompressionType uint8
	HeaderType      uint8
)

const (
	TypeUndefined  ValueType = 0x0  // TypeUndefined marks an uninitialized value.
	TypeInt8       ValueType = 0x1  // TypeInt8 represents a signed 8-bit integer.
	TypeInt16      ValueType = 0x2  // TypeInt16 represents a signed 16-bit integer.
	TypeInt32      ValueType = 0x3  // TypeInt32 represents a signed 32-bit integer.
	TypeInt64      ValueType = 0x4  // TypeInt64 represents a signed 64-bit integer.
	TypeUInt8      ValueType = 0x5  // TypeUInt8 represents an unsigned 8-bit integer.
	TypeUInt16     ValueType = 0x6  // TypeUInt16 represents an unsigned 16-bit integer.
	TypeUInt32     ValueType = 0x7  // TypeUInt32 represents an unsigned 32-bit integer.
	TypeUInt64     ValueType = 0x8  // TypeUInt64 represents an unsigned 64-bit integer.
	TypeDecimal    ValueType = 0x9  // TypeDecimal represents a scaled decimal (mantissa, exponent).
	TypeAscii      ValueType = 0xA  // TypeAscii represents a 7-bit ASCII string.
	TypeUtf8       ValueType = 0xB  // TypeUtf8 represents a length-prefixed UTF-8 string.
	TypeByteVector ValueType = 0xC  // TypeByteVector represents a length-prefixed byte vector.
	TypeBitmap     ValueType = 0xD  // TypeBitmap represents a bit map.
	TypeSequence   ValueType = 0xE  // TypeSequence represents a repeating list of groups.
	TypeGroup      ValueType = 0xF  // TypeGroup represents a nested field set.
	TypeExponent   ValueType = 0x10 // TypeExponent is the exponent part of a decimal.
	TypeMantissa   ValueType = 0x11 // TypeMantissa is the mantissa part of a decimal.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	HeaderNone  HeaderType = 0x1 // HeaderNone: messages are not framed.
	HeaderFixed HeaderType = 0x2 // HeaderFixed: a fixed-size big-endian length prefix.
	HeaderFAST  HeaderType = 0x3 // HeaderFAST: a stop-bit encoded length prefix.
)

func (v ValueType) String() string {
	switch v {
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUInt8:
		return "uInt8"
	case TypeUInt16:
		return "uInt16"
	case TypeUInt32:
		return "uInt32"
	case TypeUInt64:
		return "uInt64"
	case TypeDecimal:
		return "decimal"
	case TypeAscii:
		return "ascii"
	case TypeUtf8:
		return "utf8"
	case TypeByteVector:
		return "byteVector"
	case TypeBitmap:
		return "bitmap"
	case TypeSequence:
		return "sequence"
	case TypeGroup:
		return "group"
	case TypeExponent:
		return "exponent"
	case TypeMantissa:
		return "mantissa"
	default:
		return "undefined"
	}
}

// IsInteger reports whether v is one of the fixed-width integer types.
func (v ValueType) IsInteger() bool {
	return v >= TypeInt8 && v <= TypeUInt64 || v == TypeExponent || v == TypeMantissa
}

// IsSigned reports whether v is a signed integer type.
func (v ValueType) IsSigned() bool {
	switch v {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeExponent, TypeMantissa:
		return true
	default:
		return false
	}
}

// Bits returns the width of an integer type, or 0 for other types.
func (v ValueType) Bits() int {
	switch v {
	case TypeInt8, TypeUInt8:
		return 8
	case TypeInt16, TypeUInt16:
		return 16
	case TypeInt32, TypeUInt32, TypeExponent:
		return 32
	case TypeInt64, TypeUInt64, TypeMantissa:
		return 64
	default:
		return 0
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a configuration name to a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "", "none", "None":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (h HeaderType) String() string {
	switch h {
	case HeaderNone:
		return "None"
	case HeaderFixed:
		return "Fixed"
	case HeaderFAST:
		return "FAST"
	default:
		return "Unknown"
	}
}

// ParseHeaderType maps a configuration name to a HeaderType.
func ParseHeaderType(name string) (HeaderType, bool) {
	switch name {
	case "", "none", "None":
		return HeaderNone, true
	case "fixed", "Fixed":
		return HeaderFixed, true
	case "fast", "FAST":
		return HeaderFAST, true
	default:
		return 0, false
	}
}
