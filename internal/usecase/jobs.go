package usecase

import (
	"context"
	"fmt"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/opslog"
	"ViralGen/pkg/queue"
)

// Detached job types. Their failures never reach the cycle that queued them.
const (
	JobAutoPost       = "companion.autopost"
	JobTelegramSignal = "telegram.signal"
)

// AutoPoster hands a result to the companion node.
type AutoPoster interface {
	AutoPost(ctx context.Context, backendURL string, req models.AutoPostRequest) error
}

type autoPostPayload struct {
	BackendURL string                 `json:"backendUrl"`
	Request    models.AutoPostRequest `json:"request"`
}

// AutoPostJob delivers a committed content result to the companion.
type AutoPostJob struct {
	client  AutoPoster
	journal *opslog.Journal
	metrics drepo.Metrics
	timeout time.Duration
}

func NewAutoPostJob(client AutoPoster, journal *opslog.Journal, metrics drepo.Metrics, timeout time.Duration) *AutoPostJob {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &AutoPostJob{client: client, journal: journal, metrics: metrics, timeout: timeout}
}

func (j *AutoPostJob) Name() string { return "auto-post" }
func (j *AutoPostJob) Type() string { return JobAutoPost }

func (j *AutoPostJob) Handle(ctx context.Context, payload []byte) error {
	p, err := queue.Decode[autoPostPayload](payload)
	if err != nil {
		return err
	}
	if _, err := timed(ctx, j.metrics, "companion.autopost", j.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, j.client.AutoPost(ctx, p.BackendURL, p.Request)
	}); err != nil {
		j.journal.Add(models.LogError, "ERR: "+err.Error())
		return err
	}
	j.journal.Add(models.LogResponse, "RENDER: Transmission Success.")
	return nil
}

// TelegramJob delivers a committed signal to the configured chat. The
// credentials are read when the job runs, so a cleared token cancels
// pending deliveries.
type TelegramJob struct {
	notifier drepo.Notifier
	config   func() models.SignalConfig
	journal  *opslog.Journal
	timeout  time.Duration
}

func NewTelegramJob(n drepo.Notifier, config func() models.SignalConfig, journal *opslog.Journal, timeout time.Duration) *TelegramJob {
	return &TelegramJob{notifier: n, config: config, journal: journal, timeout: timeout}
}

func (j *TelegramJob) Name() string { return "telegram-signal" }
func (j *TelegramJob) Type() string { return JobTelegramSignal }

func (j *TelegramJob) Handle(ctx context.Context, payload []byte) error {
	s, err := queue.Decode[models.TradingSignal](payload)
	if err != nil {
		return err
	}
	cfg := j.config()
	if cfg.TGToken == "" || cfg.TGChatID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	if err := j.notifier.NotifySignal(ctx, cfg.TGToken, cfg.TGChatID, *s); err != nil {
		j.journal.Add(models.LogError, fmt.Sprintf("Telegram Fault: %v", err))
		return err
	}
	j.journal.Add(models.LogResponse, fmt.Sprintf("Telegram Relay: %s %s", s.Action, s.Pair))
	return nil
}

var (
	_ queue.Job = (*AutoPostJob)(nil)
	_ queue.Job = (*TelegramJob)(nil)
)
