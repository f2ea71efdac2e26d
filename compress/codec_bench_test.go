package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCompress(b *testing.B) {
	for _, typ := range allTypes {
		codec, _ := GetCodec(typ)
		for _, messages := range []int{100, 1000, 10000} {
			data := fastBlock(messages)
			b.Run(fmt.Sprintf("%s/%d", typ, messages), func(b *testing.B) {
				b.SetBytes(int64(len(data)))
				for b.Loop() {
					if _, err := codec.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkDecompress(b *testing.B) {
	for _, typ := range allTypes {
		codec, _ := GetCodec(typ)
		data := fastBlock(10000)
		packed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(typ.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, err := codec.Decompress(packed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
