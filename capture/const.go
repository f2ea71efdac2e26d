package capture

const (
	EndiannessMask   = 0x0002 // bit 1: 0=little, 1=big
	ReservedBitsMask = 0x000D // bits 0, 2 and 3 must be zero
	MagicNumberMask  = 0xFFF0 // bits 4-15

	MagicCaptureV1Opt = 0xFA10 // magic number of a version 1 capture

	Version1 = 1
)

const (
	HeaderSize       = 32        // fixed file header size in bytes
	BlockHeaderSize  = 16        // raw length, packed length and checksum
	DefaultBlockSize = 64 * 1024 // uncompressed bytes per block
	MinBlockSize     = 256
	MaxBlockSize     = 64 * 1024 * 1024
)
