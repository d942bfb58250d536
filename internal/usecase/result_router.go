package usecase

import (
	"context"
	"fmt"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/pkg/config"
)

// ResultRouter forwards committed results to the configured sink.
type ResultRouter struct {
	pub     drepo.Publisher
	archive drepo.Archive
	metrics drepo.Metrics
	sink    string
}

// NewResultRouter creates a router. pub and archive may be nil when the
// sink does not use them.
func NewResultRouter(pub drepo.Publisher, archive drepo.Archive, metrics drepo.Metrics, sink string) *ResultRouter {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if sink == "" {
		sink = config.SinkNone
	}
	return &ResultRouter{pub: pub, archive: archive, metrics: metrics, sink: sink}
}

func (r *ResultRouter) Sink() string { return r.sink }

// RouteSignal sends s to the sink.
func (r *ResultRouter) RouteSignal(ctx context.Context, s models.TradingSignal) error {
	var err error
	switch r.sink {
	case config.SinkNone:
		return nil
	case config.SinkKafka:
		err = r.pub.PublishSignal(ctx, s)
	case config.SinkClickHouse:
		err = r.archive.StoreSignal(ctx, s)
	default:
		err = fmt.Errorf("unknown sink: %s", r.sink)
	}
	return r.observe("signal", err)
}

// RouteContent sends res to the sink.
func (r *ResultRouter) RouteContent(ctx context.Context, res models.GenerationResult) error {
	var err error
	switch r.sink {
	case config.SinkNone:
		return nil
	case config.SinkKafka:
		err = r.pub.PublishContent(ctx, res)
	case config.SinkClickHouse:
		err = r.archive.StoreContent(ctx, res)
	default:
		err = fmt.Errorf("unknown sink: %s", r.sink)
	}
	return r.observe("content", err)
}

func (r *ResultRouter) observe(kind string, err error) error {
	r.metrics.RecordPublished(r.sink, kind, err)
	if err != nil {
		r.metrics.RecordError("route_" + kind)
		return fmt.Errorf("route %s to %s: %w", kind, r.sink, err)
	}
	return nil
}

// Close releases the sink clients.
func (r *ResultRouter) Close(context.Context) error {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.archive != nil {
		_ = r.archive.Close()
	}
	return nil
}

// timed runs fn under its own timeout and records the call latency.
func timed[T any](ctx context.Context, m drepo.Metrics, call string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	v, err := fn(ctx)
	m.RecordCall(call, time.Since(start), err)
	return v, err
}
