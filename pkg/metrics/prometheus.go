package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	cycles      *prometheus.CounterVec
	cycleTime   *prometheus.HistogramVec
	callTime    *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
	countdown   *prometheus.GaugeVec
	historySize *prometheus.GaugeVec
	lastPrice   *prometheus.GaugeVec
	published   *prometheus.CounterVec
}

// New registers the recorder's collectors on reg (nil means the default registry).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		cycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viralgen_cycles_total",
				Help: "Generation cycles by component and result",
			},
			[]string{"component", "result"},
		),
		cycleTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viralgen_cycle_duration_seconds",
				Help:    "Duration of generation cycles",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
			},
			[]string{"component"},
		),
		callTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "viralgen_external_call_seconds",
				Help:    "Latency of external API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viralgen_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
		countdown: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "viralgen_scheduler_countdown_seconds",
				Help: "Seconds until the next scheduled cycle",
			},
			[]string{"component"},
		),
		historySize: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "viralgen_history_size",
				Help: "Entries currently held in a bounded history",
			},
			[]string{"history"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "viralgen_last_price",
				Help: "Last price of the selected market mover",
			},
			[]string{"symbol"},
		),
		published: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viralgen_results_published_total",
				Help: "Committed results forwarded to a sink",
			},
			[]string{"sink", "kind", "result"},
		),
	}
}

func (r *Recorder) RecordCycle(component, result string, d time.Duration) {
	r.cycles.WithLabelValues(component, result).Inc()
	r.cycleTime.WithLabelValues(component).Observe(d.Seconds())
}

func (r *Recorder) RecordCall(call string, d time.Duration, err error) {
	r.callTime.WithLabelValues(call, resultLabel(err)).Observe(d.Seconds())
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) SetCountdown(component string, seconds int) {
	r.countdown.WithLabelValues(component).Set(float64(seconds))
}

func (r *Recorder) SetHistorySize(name string, n int) {
	r.historySize.WithLabelValues(name).Set(float64(n))
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordPublished(sink, kind string, err error) {
	r.published.WithLabelValues(sink, kind, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
