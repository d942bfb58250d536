package kafka

import (
	"context"
	"time"

	"ViralGen/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling.
// A non-nil error from BeforeHandle skips the handler for that attempt.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error)
	AfterHandle(ctx context.Context, km kafka.Message, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return ctx, nil
}

func (NoopHook) AfterHandle(context.Context, kafka.Message, error) {}

type ctxKey string

const ctxStartTime ctxKey = "kafka_hook_start_time"

// LoggingHook logs failed and slow handler attempts.
type LoggingHook struct {
	Log  *logger.Logger
	Slow time.Duration
}

func (h LoggingHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return context.WithValue(ctx, ctxStartTime, time.Now()), nil
}

func (h LoggingHook) AfterHandle(ctx context.Context, km kafka.Message, err error) {
	start, _ := ctx.Value(ctxStartTime).(time.Time)
	elapsed := time.Since(start)
	fields := []logger.Field{
		logger.String("topic", km.Topic),
		logger.Int("partition", km.Partition),
		logger.Int64("offset", km.Offset),
		logger.Duration("elapsed_ms", elapsed),
	}
	switch {
	case err != nil:
		h.Log.Warn("kafka handler failed", append(fields, logger.Error(err))...)
	case h.Slow > 0 && elapsed >= h.Slow:
		h.Log.Warn("kafka handler slow", fields...)
	}
}

// Header returns the value of the first header named key.
func Header(km kafka.Message, key string) string {
	for _, h := range km.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
