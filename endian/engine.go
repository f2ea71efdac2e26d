// Package endian selects the byte order used for fixed-width fields: capture
// file headers and fixed-size message length prefixes.
package endian

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// EndianEngine reads and appends fixed-width integers in one byte order.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Native returns the byte order of the running machine.
func Native() EndianEngine {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether engine matches the machine byte order.
func IsNative(engine EndianEngine) bool {
	return engine == Native()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, the network byte order
// used by FAST block headers.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Select returns the big-endian engine when big is true, little-endian otherwise.
func Select(big bool) EndianEngine {
	if big {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// AppendUint appends v as a size-byte integer. size must be 1, 2, 4 or 8.
func AppendUint(engine EndianEngine, dst []byte, size int, v uint64) ([]byte, error) {
	switch size {
	case 1:
		if v > 0xFF {
			return dst, fmt.Errorf("value %d does not fit 1 byte", v)
		}
		return append(dst, byte(v)), nil
	case 2:
		if v > 0xFFFF {
			return dst, fmt.Errorf("value %d does not fit 2 bytes", v)
		}
		return engine.AppendUint16(dst, uint16(v)), nil
	case 4:
		if v > 0xFFFFFFFF {
			return dst, fmt.Errorf("value %d does not fit 4 bytes", v)
		}
		return engine.AppendUint32(dst, uint32(v)), nil
	case 8:
		return engine.AppendUint64(dst, v), nil
	default:
		return dst, fmt.Errorf("unsupported integer size %d", size)
	}
}

// Uint reads a size-byte integer from the front of src. size must be 1, 2, 4
// or 8 and src must hold at least size bytes.
func Uint(engine EndianEngine, src []byte, size int) (uint64, error) {
	if len(src) < size {
		return 0, fmt.Errorf("need %d bytes, have %d", size, len(src))
	}

	switch size {
	case 1:
		return uint64(src[0]), nil
	case 2:
		return uint64(engine.Uint16(src)), nil
	case 4:
		return uint64(engine.Uint32(src)), nil
	case 8:
		return engine.Uint64(src), nil
	default:
		return 0, fmt.Errorf("unsupported integer size %d", size)
	}
}
