package capture

import (
	"context"

	"github.com/zoobzio/capitan"
)

// SignalBlock is emitted for every block written or read.
var SignalBlock = capitan.NewSignal("quickfast.capture.block", "Capture block written or read")

var (
	KeyOperation   = capitan.NewStringKey("operation")
	KeyBlock       = capitan.NewIntKey("block")
	KeyMessages    = capitan.NewIntKey("messages")
	KeyRawSize     = capitan.NewIntKey("raw_size")
	KeyPackedSize  = capitan.NewIntKey("packed_size")
	KeyCompression = capitan.NewStringKey("compression")
	KeyError       = capitan.NewErrorKey("error")
)

type blockEvent struct {
	operation   string
	block       int
	messages    int
	rawSize     int
	packedSize  int
	compression string
}

func emitBlock(ctx context.Context, ev blockEvent, err error) {
	fields := []capitan.Field{
		KeyOperation.Field(ev.operation),
		KeyBlock.Field(ev.block),
		KeyMessages.Field(ev.messages),
		KeyRawSize.Field(ev.rawSize),
		KeyPackedSize.Field(ev.packedSize),
		KeyCompression.Field(ev.compression),
	}
	if err != nil {
		capitan.Error(ctx, SignalBlock, append(fields, KeyError.Field(err))...)
		return
	}
	capitan.Emit(ctx, SignalBlock, fields...)
}
