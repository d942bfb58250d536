package opslog

import (
	"bytes"
	"testing"
	"time"

	"ViralGen/internal/domain/models"
	"ViralGen/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJournalCapsNewestFirst(t *testing.T) {
	t.Parallel()
	j := New(5, nil)
	for i := 0; i < 7; i++ {
		j.System("line %d", i)
	}

	entries := j.Entries()
	require.Len(t, entries, 5)
	require.Equal(t, "line 6", entries[0].Content)
	require.Equal(t, "line 2", entries[4].Content)
}

func TestJournalIDsStrictlyIncrease(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 14, 5, 9, 0, time.Local)
	j := New(50, nil, WithClock(fixedClock(at)))

	a := j.System("a")
	b := j.Warn("b")
	c := j.Error("c")

	require.Equal(t, at.UnixMilli(), a.ID)
	require.Equal(t, a.ID+1, b.ID)
	require.Equal(t, b.ID+1, c.ID)
	require.Equal(t, "14:05:09", a.Time)
	require.Equal(t, models.LogWarn, b.Type)
}

func TestJournalLines(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 9, 0, 1, 0, time.Local)
	j := New(5, nil, WithClock(fixedClock(at)))
	j.System("AI: Harvesting viral hooks...")
	j.Add(models.LogResponse, "RENDER: Transmission Success.")

	require.Equal(t, []string{
		"[09:00:01] RENDER: Transmission Success.",
		"[09:00:01] AI: Harvesting viral hooks...",
	}, j.Lines())
}

func TestJournalMirrorsToLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	j := New(5, logger.NewWriter(&buf, zerolog.DebugLevel))

	j.Error("Cycle Error: %s", "quota")

	out := buf.String()
	require.Contains(t, out, `"level":"error"`)
	require.Contains(t, out, "Cycle Error: quota")
	require.Contains(t, out, `"type":"ERROR"`)
}

func TestJournalSubscribe(t *testing.T) {
	t.Parallel()
	j := New(5, nil)
	ch, cancel := j.Subscribe(4)

	j.System("hello")
	select {
	case e := <-ch:
		require.Equal(t, "hello", e.Content)
	case <-time.After(time.Second):
		t.Fatal("no entry delivered")
	}

	cancel()
	cancel()
	_, ok := <-ch
	require.False(t, ok)

	// Writers are unaffected once the subscriber is gone.
	j.System("after")
	require.Len(t, j.Entries(), 2)
}

func TestJournalSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()
	j := New(100, nil)
	_, cancel := j.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			j.System("x")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer blocked on slow subscriber")
	}
}
