package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/objectcomputing/quickfast/capture"
	"github.com/objectcomputing/quickfast/codec"
	"github.com/objectcomputing/quickfast/errs"
	"github.com/objectcomputing/quickfast/format"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.Strict)
	require.Equal(t, capture.DefaultBlockSize, cfg.Capture.BlockSize)

	framer, err := cfg.Framer()
	require.NoError(t, err)
	require.Equal(t, format.HeaderFAST, framer.Type())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
strict: false
verbose: true
reset_on_start: true
capture:
  compression: lz4
  block_size: 4096
  endianness: big
header:
  type: fixed
  prefix_size: 4
`))
	require.NoError(t, err)
	require.False(t, cfg.Strict)
	require.True(t, cfg.Verbose)
	require.True(t, cfg.ResetOnStart)
	require.Equal(t, CaptureConfig{Compression: "lz4", BlockSize: 4096, Endianness: "big"}, cfg.Capture)
	require.Equal(t, HeaderConfig{Type: "fixed", PrefixSize: 4}, cfg.Header)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("verbose: true\n"))
	require.NoError(t, err)
	require.True(t, cfg.Strict)
	require.True(t, cfg.Verbose)
	require.Equal(t, "zstd", cfg.Capture.Compression)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":      "strict: [",
		"unknown key": "colour: red\n",
		"compression": "capture:\n  compression: brotli\n",
		"block size":  "capture:\n  block_size: 10\n",
		"endianness":  "capture:\n  endianness: middle\n",
		"header type": "header:\n  type: xml\n",
		"prefix size": "header:\n  type: fixed\n  prefix_size: 3\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickfast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capture:\n  compression: s2\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "s2", cfg.Capture.Compression)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Verbose = true
	cfg.Capture.Compression = "none"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, parsed)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Strict = false
	cfg.Capture.Endianness = "big"

	reg := codec.NewRegistry()
	require.NoError(t, reg.Add(codec.NewTemplate(1, "T", "")))
	require.NoError(t, reg.Finalize())

	dec, err := codec.NewDecoder(reg, cfg.DecoderOptions()...)
	require.NoError(t, err)
	require.False(t, dec.Context().Strict())

	enc, err := codec.NewEncoder(reg, cfg.EncoderOptions()...)
	require.NoError(t, err)
	require.False(t, enc.Context().Strict())

	w, err := capture.NewWriter(io.Discard, reg.Fingerprint(), cfg.CaptureOptions()...)
	require.NoError(t, err)
	require.True(t, w.Header().Flag.IsBigEndian())
	require.Equal(t, format.CompressionZstd, w.Header().Flag.Compression())
}
