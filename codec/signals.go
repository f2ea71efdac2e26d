package codec

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalWarning        = capitan.NewSignal("quickfast.codec.warning", "Recoverable wire anomaly tolerated in non-strict mode")
	SignalOverflow       = capitan.NewSignal("quickfast.codec.overflow", "Value truncated to its field width")
	SignalReset          = capitan.NewSignal("quickfast.codec.reset", "Dictionaries reset")
	SignalTrace          = capitan.NewSignal("quickfast.codec.trace", "Verbose field trace")
	SignalDecodeComplete = capitan.NewSignal("quickfast.decode.complete", "Message decode finished")
	SignalEncodeComplete = capitan.NewSignal("quickfast.encode.complete", "Message encode finished")
)

// Keys for typed event data.
var (
	KeyCode       = capitan.NewStringKey("code")
	KeyMessage    = capitan.NewStringKey("message")
	KeyField      = capitan.NewStringKey("field")
	KeyTemplateID = capitan.NewIntKey("template_id")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

func emitWarning(ctx context.Context, code, fieldName, message string) {
	capitan.Emit(ctx, SignalWarning,
		KeyCode.Field(code),
		KeyField.Field(fieldName),
		KeyMessage.Field(message),
	)
}

func emitOverflow(ctx context.Context, code, fieldName, message string) {
	capitan.Emit(ctx, SignalOverflow,
		KeyCode.Field(code),
		KeyField.Field(fieldName),
		KeyMessage.Field(message),
	)
}

func emitReset(ctx context.Context, templateID uint32, reason string) {
	capitan.Emit(ctx, SignalReset,
		KeyTemplateID.Field(int(templateID)),
		KeyMessage.Field(reason),
	)
}

func emitTrace(ctx context.Context, message string) {
	capitan.Emit(ctx, SignalTrace, KeyMessage.Field(message))
}

func completeFields(templateID uint32, size int, duration time.Duration) []capitan.Field {
	return []capitan.Field{
		KeyTemplateID.Field(int(templateID)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
}

// emitDecodeComplete emits an event when a message decode finishes.
func emitDecodeComplete(ctx context.Context, templateID uint32, size int, duration time.Duration, err error) {
	fields := completeFields(templateID, size, duration)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitEncodeComplete emits an event when a message encode finishes.
func emitEncodeComplete(ctx context.Context, templateID uint32, size int, duration time.Duration, err error) {
	fields := completeFields(templateID, size, duration)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}
