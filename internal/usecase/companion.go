package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/history"
	"ViralGen/internal/opslog"
	"ViralGen/pkg/logger"
)

var ErrEmptyItem = errors.New("item id is required")

// CompanionHealth is the body of the companion's health endpoint.
type CompanionHealth struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
	Uptime   string `json:"uptime"`
}

// Companion accepts auto-post hand-offs from the factory, records them and
// republishes them downstream. It does not upload to any platform.
type Companion struct {
	received *history.Log[models.GenerationResult]
	journal  *opslog.Journal
	pub      drepo.Publisher
	metrics  drepo.Metrics
	started  time.Time
}

// NewCompanion creates a companion. pub may be nil.
func NewCompanion(historyCap int, pub drepo.Publisher, metrics drepo.Metrics, log *logger.Logger) *Companion {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Companion{
		received: history.New[models.GenerationResult](historyCap),
		journal:  opslog.New(historyCap, log.Component("companion")),
		pub:      pub,
		metrics:  metrics,
		started:  time.Now(),
	}
}

func (c *Companion) Journal() *opslog.Journal { return c.journal }

// Receive records req.Item. Republishing is best-effort.
func (c *Companion) Receive(ctx context.Context, req models.AutoPostRequest) error {
	if req.Item.ID == "" {
		return ErrEmptyItem
	}
	c.received.Push(req.Item)
	c.metrics.SetHistorySize("companion_received", c.received.Len())

	linked := 0
	for _, p := range req.Item.Platforms {
		if p.Linked {
			linked++
		}
	}
	c.journal.Add(models.LogResponse, fmt.Sprintf("AUTO-POST: %q queued for %d platform(s)", req.Item.Metadata.Title, linked))

	if c.pub != nil {
		err := c.pub.PublishAutoPost(ctx, req.Item)
		c.metrics.RecordPublished("kafka", "autopost", err)
		if err != nil {
			c.journal.Add(models.LogWarn, "Republish failed: "+err.Error())
		}
	}
	return nil
}

// Received returns recorded items, newest first.
func (c *Companion) Received() []models.GenerationResult { return c.received.Snapshot() }

func (c *Companion) Health() CompanionHealth {
	return CompanionHealth{
		Status:   "ONLINE",
		Received: c.received.Len(),
		Uptime:   time.Since(c.started).Truncate(time.Second).String(),
	}
}
