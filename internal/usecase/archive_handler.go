package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	pkgkafka "ViralGen/pkg/kafka"
)

// Archive record kinds.
const (
	KindSignal  = "signal"
	KindContent = "content"
)

// ArchiveHandler consumes one topic of published results and writes them
// to the archive.
type ArchiveHandler struct {
	topic   string
	kind    string
	archive drepo.Archive
	metrics drepo.Metrics
}

func NewArchiveHandler(topic, kind string, archive drepo.Archive, metrics drepo.Metrics) *ArchiveHandler {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &ArchiveHandler{topic: topic, kind: kind, archive: archive, metrics: metrics}
}

func (h *ArchiveHandler) Topic() string { return h.topic }

func (h *ArchiveHandler) Handle(ctx context.Context, b []byte) error {
	start := time.Now()
	var err error

	switch h.kind {
	case KindSignal:
		var s models.TradingSignal
		if err = json.Unmarshal(b, &s); err != nil {
			h.metrics.RecordError("consumer_unmarshal")
			return fmt.Errorf("decode signal: %w", err)
		}
		err = h.archive.StoreSignal(ctx, s)
	case KindContent:
		var r models.GenerationResult
		if err = json.Unmarshal(b, &r); err != nil {
			h.metrics.RecordError("consumer_unmarshal")
			return fmt.Errorf("decode content: %w", err)
		}
		err = h.archive.StoreContent(ctx, r)
	default:
		return fmt.Errorf("unknown archive kind: %s", h.kind)
	}

	h.metrics.RecordCall("clickhouse.insert_"+h.kind, time.Since(start), err)
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordPublished("clickhouse", h.kind, nil)
	return nil
}

var _ pkgkafka.MessageHandler = (*ArchiveHandler)(nil)
