package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	t.Parallel()
	r := New(prometheus.NewRegistry())

	r.RecordCycle("signals", "ok", time.Second)
	r.RecordCycle("signals", "ok", time.Second)
	r.RecordCycle("signals", "error", time.Second)
	r.RecordPublished("kafka", "signal", errors.New("down"))
	r.SetCountdown("factory", 900)

	require.Equal(t, 2.0, testutil.ToFloat64(r.cycles.WithLabelValues("signals", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.cycles.WithLabelValues("signals", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.published.WithLabelValues("kafka", "signal", "error")))
	require.Equal(t, 900.0, testutil.ToFloat64(r.countdown.WithLabelValues("factory")))
}
