package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/internal/options"
)

// settings holds what the options of NewWriter and NewReader configure.
type settings struct {
	compression    format.CompressionType
	blockSize      int
	bigEndian      bool
	ctx            context.Context
	fingerprint    uint64
	hasFingerprint bool
}

func defaultSettings() *settings {
	return &settings{
		compression: format.CompressionZstd,
		blockSize:   DefaultBlockSize,
		ctx:         context.Background(),
	}
}

// Option configures a Writer or Reader.
type Option = options.Option[*settings]

// WithCompression sets the block codec of a new capture. The default is Zstd.
func WithCompression(c format.CompressionType) Option {
	return options.New(func(s *settings) error {
		if _, ok := validCompressions[uint8(c)]; !ok {
			return fmt.Errorf("invalid capture compression: %s", c)
		}
		s.compression = c

		return nil
	})
}

// WithBlockSize sets the uncompressed size at which a block is flushed.
func WithBlockSize(size int) Option {
	return options.New(func(s *settings) error {
		if size < MinBlockSize || size > MaxBlockSize {
			return fmt.Errorf("block size %d outside [%d, %d]", size, MinBlockSize, MaxBlockSize)
		}
		s.blockSize = size

		return nil
	})
}

// WithBigEndian stores header fields and block headers big-endian.
func WithBigEndian(big bool) Option {
	return options.NoError(func(s *settings) {
		s.bigEndian = big
	})
}

// WithContext sets the context block events are emitted against.
func WithContext(ctx context.Context) Option {
	return options.New(func(s *settings) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		s.ctx = ctx

		return nil
	})
}

// WithFingerprint makes NewReader reject captures recorded with another
// template registry.
func WithFingerprint(fingerprint uint64) Option {
	return options.NoError(func(s *settings) {
		s.fingerprint, s.hasFingerprint = fingerprint, true
	})
}
