// Package config loads decoder, encoder and capture settings from YAML.
//
// Example file:
//
//	strict: true
//	verbose: false
//	reset_on_start: true
//	capture:
//	  compression: zstd
//	  block_size: 65536
//	  endianness: little
//	header:
//	  type: fast
//	  prefix_size: 0
//
// Missing keys keep their defaults; unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/objectcomputing/quickfast/capture"
	"github.com/objectcomputing/quickfast/codec"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/objectcomputing/quickfast/stream"
	"gopkg.in/yaml.v3"
)

// Config is the root of a settings file.
type Config struct {
	// Strict makes overflowing and overlong integers fail the message.
	Strict bool `yaml:"strict"`
	// Verbose enables per-field tracing.
	Verbose bool `yaml:"verbose"`
	// ResetOnStart clears the dictionaries before a stream is replayed, for
	// captures that begin mid-session.
	ResetOnStart bool          `yaml:"reset_on_start"`
	Capture      CaptureConfig `yaml:"capture"`
	Header       HeaderConfig  `yaml:"header"`
}

// CaptureConfig configures capture files.
type CaptureConfig struct {
	Compression string `yaml:"compression"` // none, zstd, s2 or lz4
	BlockSize   int    `yaml:"block_size"`
	Endianness  string `yaml:"endianness"` // little or big
}

// HeaderConfig describes how messages are delimited in a raw stream.
type HeaderConfig struct {
	Type       string `yaml:"type"` // none, fixed or fast
	PrefixSize int    `yaml:"prefix_size"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Strict: true,
		Capture: CaptureConfig{
			Compression: "zstd",
			BlockSize:   capture.DefaultBlockSize,
			Endianness:  "little",
		},
		Header: HeaderConfig{Type: "fast"},
	}
}

// Load reads and validates a settings file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
//
// Returns:
//   - *Config: The settings
//   - error: errs.ErrInvalidConfig for syntax errors, unknown keys or invalid values
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal encodes the settings as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every value.
func (c *Config) Validate() error {
	if _, ok := format.ParseCompressionType(c.Capture.Compression); !ok {
		return invalid("capture.compression", "unknown compression %q", c.Capture.Compression)
	}
	if c.Capture.BlockSize < capture.MinBlockSize || c.Capture.BlockSize > capture.MaxBlockSize {
		return invalid("capture.block_size", "%d outside [%d, %d]",
			c.Capture.BlockSize, capture.MinBlockSize, capture.MaxBlockSize)
	}
	switch strings.ToLower(c.Capture.Endianness) {
	case "", "little", "big":
	default:
		return invalid("capture.endianness", "unknown byte order %q", c.Capture.Endianness)
	}
	if _, err := c.Framer(); err != nil {
		return invalid("header", "%v", err)
	}

	return nil
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", errs.ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

// DecoderOptions returns the codec options for a Decoder.
func (c *Config) DecoderOptions() []codec.Option {
	return []codec.Option{codec.WithStrict(c.Strict), codec.WithVerbose(c.Verbose)}
}

// EncoderOptions returns the codec options for an Encoder.
func (c *Config) EncoderOptions() []codec.Option {
	return []codec.Option{codec.WithStrict(c.Strict), codec.WithVerbose(c.Verbose)}
}

// CaptureOptions returns the options for capture.NewWriter.
func (c *Config) CaptureOptions() []capture.Option {
	compression, _ := format.ParseCompressionType(c.Capture.Compression)

	return []capture.Option{
		capture.WithCompression(compression),
		capture.WithBlockSize(c.Capture.BlockSize),
		capture.WithBigEndian(strings.EqualFold(c.Capture.Endianness, "big")),
	}
}

// Framer returns the message framer for the header settings.
func (c *Config) Framer() (*stream.Framer, error) {
	typ, ok := format.ParseHeaderType(c.Header.Type)
	if !ok {
		return nil, fmt.Errorf("unknown header type %q", c.Header.Type)
	}

	return stream.NewFramer(typ, c.Header.PrefixSize)
}
