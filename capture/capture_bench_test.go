package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/objectcomputing/quickfast/format"
)

func BenchmarkWriter(b *testing.B) {
	msgs := testMessages(10000)
	for _, c := range compressions {
		b.Run(c.String(), func(b *testing.B) {
			for b.Loop() {
				w, err := NewWriter(io.Discard, 1, WithCompression(c))
				if err != nil {
					b.Fatal(err)
				}
				for _, msg := range msgs {
					if err := w.WriteMessage(msg); err != nil {
						b.Fatal(err)
					}
				}
				if err := w.Close(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkReader(b *testing.B) {
	msgs := testMessages(10000)
	for _, c := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionLZ4} {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, 1, WithCompression(c))
		for _, msg := range msgs {
			_ = w.WriteMessage(msg)
		}
		_ = w.Close()
		data := buf.Bytes()

		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				r, err := NewReader(bytes.NewReader(data))
				if err != nil {
					b.Fatal(err)
				}
				for {
					if _, err := r.Next(); err != nil {
						if err == io.EOF {
							break
						}
						b.Fatal(err)
					}
				}
			}
		})
	}
}
