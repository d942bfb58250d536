package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerEmitsFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel).Component("signals")

	l.Info("cycle done",
		String("pair", "SOLUSDT"),
		Int("count", 3),
		Bool("armed", true),
		Duration("took", 1500*time.Millisecond),
	)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "cycle done", out["message"])
	require.Equal(t, "signals", out["component"])
	require.Equal(t, "SOLUSDT", out["pair"])
	require.EqualValues(t, 3, out["count"])
	require.Equal(t, true, out["armed"])
	require.EqualValues(t, 1500, out["took"])
}

func TestLevelFiltersDebug(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel)

	l.Debug("hidden")
	require.Zero(t, buf.Len())

	l.Error("shown", Error(errors.New("boom")))
	require.Contains(t, buf.String(), "boom")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestWithCarriesFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.DebugLevel).With(String("service", "factory"))

	l.Warn("probe offline")
	require.Contains(t, buf.String(), `"service":"factory"`)
}
