package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBackoffWithJitterStaysInRange(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		minMs := rapid.IntRange(1, 500).Draw(t, "min")
		maxMs := rapid.IntRange(minMs, 5000).Draw(t, "max")
		attempt := rapid.IntRange(1, 40).Draw(t, "attempt")

		min := time.Duration(minMs) * time.Millisecond
		max := time.Duration(maxMs) * time.Millisecond
		got := backoffWithJitter(min, max, attempt)

		if got <= 0 || got > max {
			t.Fatalf("backoff %v outside (0, %v]", got, max)
		}
	})
}

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	b, err := encodeValue([]byte("raw"))
	require.NoError(t, err)
	require.Equal(t, "raw", string(b))

	b, err = encodeValue(map[string]int{"a": 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(b))
}

func TestHeader(t *testing.T) {
	t.Parallel()
	km := kafka.Message{Headers: []kafka.Header{{Key: "kind", Value: []byte("signal")}}}
	require.Equal(t, "signal", Header(km, "kind"))
	require.Empty(t, Header(km, "missing"))
}

func TestParseCompressionDefaultsToGzip(t *testing.T) {
	t.Parallel()
	require.Equal(t, kafka.Gzip, parseCompression("unknown"))
	require.Equal(t, kafka.Zstd, parseCompression("zstd"))
}
