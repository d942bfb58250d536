package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/history"
	"ViralGen/internal/opslog"
	"ViralGen/internal/scheduler"
	"ViralGen/pkg/logger"
	"ViralGen/pkg/queue"
	"ViralGen/pkg/util"
)

var (
	ErrMissingAPIKey = errors.New("no gemini api key provided")
	ErrBusy          = errors.New("a cycle is already running")
)

const signalIDLen = 5

type SignalEngineConfig struct {
	Symbols         []string
	IntervalMinutes int
	HistoryCap      int
	LogCap          int
	CallTimeout     time.Duration
	DefaultKey      string
	TGToken         string
	TGChatID        string
	AutoPilot       bool
}

// SignalStatus is the engine state served by /api/status.
type SignalStatus struct {
	Config    models.SignalConfig    `json:"config"`
	Signals   []models.TradingSignal `json:"signals"`
	Logs      []models.LogEntry      `json:"logs"`
	Scheduler scheduler.State        `json:"scheduler"`
}

// SignalEngine owns the market-signal state: runtime config, signal
// history, operator log and the scheduler that drives scans.
type SignalEngine struct {
	cfg     SignalEngineConfig
	market  drepo.MarketData
	llm     drepo.SignalGenerator
	queue   queue.QueueService
	router  *ResultRouter
	metrics drepo.Metrics
	log     *logger.Logger

	journal *opslog.Journal
	signals *history.Log[models.TradingSignal]
	sched   *scheduler.Scheduler

	mu     sync.RWMutex
	config models.SignalConfig
}

// NewSignalEngine wires the engine. q may be nil to disable Telegram relay.
func NewSignalEngine(
	cfg SignalEngineConfig,
	market drepo.MarketData,
	llm drepo.SignalGenerator,
	q queue.QueueService,
	router *ResultRouter,
	metrics drepo.Metrics,
	log *logger.Logger,
) *SignalEngine {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("signal-engine")

	e := &SignalEngine{
		cfg:     cfg,
		market:  market,
		llm:     llm,
		queue:   q,
		router:  router,
		metrics: metrics,
		log:     log,
		journal: opslog.New(cfg.LogCap, log),
		signals: history.New[models.TradingSignal](cfg.HistoryCap),
		config: models.SignalConfig{
			GeminiKey: cfg.DefaultKey,
			TGToken:   cfg.TGToken,
			TGChatID:  cfg.TGChatID,
			AutoPilot: cfg.AutoPilot,
		},
	}
	e.sched = scheduler.New(e.cycle, cfg.IntervalMinutes,
		scheduler.WithLogger(log),
		scheduler.WithOnCycle(func(r scheduler.CycleReport) {
			metrics.RecordCycle("signals", cycleResult(r.Err), r.Duration)
		}),
		scheduler.WithOnTick(func(s scheduler.State) {
			metrics.SetCountdown("signals", s.Countdown)
		}),
	)
	if cfg.AutoPilot {
		_ = e.sched.Arm(cfg.IntervalMinutes)
	}
	return e
}

func (e *SignalEngine) Journal() *opslog.Journal { return e.journal }

func (e *SignalEngine) Scheduler() *scheduler.Scheduler { return e.sched }

// Config returns the unmasked runtime config.
func (e *SignalEngine) Config() models.SignalConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// Status returns a snapshot with secrets masked.
func (e *SignalEngine) Status() SignalStatus {
	cfg := e.Config()
	cfg.GeminiKey = util.MaskSecret(cfg.GeminiKey)
	cfg.TGToken = util.MaskSecret(cfg.TGToken)
	return SignalStatus{
		Config:    cfg,
		Signals:   e.signals.Snapshot(),
		Logs:      e.journal.Entries(),
		Scheduler: e.sched.State(),
	}
}

// Signals returns the signal history, newest first.
func (e *SignalEngine) Signals() []models.TradingSignal { return e.signals.Snapshot() }

// UpdateConfig merges patch. Switching autopilot on arms the scheduler with
// an expired countdown so a scan fires on the next tick; switching it off
// disarms.
func (e *SignalEngine) UpdateConfig(patch models.SignalConfigPatch) models.SignalConfig {
	e.mu.Lock()
	wasOn := e.config.AutoPilot
	e.config = patch.Apply(e.config)
	cfg := e.config
	e.mu.Unlock()

	e.journal.System("Registry updated.")
	switch {
	case !wasOn && cfg.AutoPilot:
		_ = e.sched.ArmImmediate(e.cfg.IntervalMinutes)
	case wasOn && !cfg.AutoPilot:
		e.sched.Disarm()
	}
	return cfg
}

// ManualScan runs one scan and waits for it. It returns ErrBusy when a scan
// is already in flight. The scan outlives a cancelled caller.
func (e *SignalEngine) ManualScan(ctx context.Context) error {
	ran, err := e.sched.TriggerManual(context.WithoutCancel(ctx))
	if !ran {
		return ErrBusy
	}
	return err
}

// Run drives the scheduler until ctx is done.
func (e *SignalEngine) Run(ctx context.Context) {
	e.journal.System("Alpha engine online. Watching %d pairs.", len(e.cfg.Symbols))
	e.sched.Run(ctx)
}

func (e *SignalEngine) cycle(ctx context.Context) error {
	cfg := e.Config()
	key := cfg.GeminiKey
	if key == "" {
		key = e.cfg.DefaultKey
	}
	if key == "" {
		e.metrics.RecordError("config")
		e.journal.Add(models.LogError, "No Gemini API Key provided.")
		return ErrMissingAPIKey
	}

	trigger := "Scheduled"
	if scheduler.Manual(ctx) {
		trigger = "Manual"
	}
	e.journal.System("%s scan pulse...", trigger)

	sig, err := e.scan(ctx, key)
	if err != nil {
		e.metrics.RecordError("signal_cycle")
		e.journal.Add(models.LogError, "Engine Fault: "+err.Error())
		return err
	}

	e.signals.Push(sig)
	e.metrics.SetHistorySize("signals", e.signals.Len())
	e.journal.Add(models.LogResponse, fmt.Sprintf("Alpha Pulse: %s %s", sig.Action, sig.Pair))

	e.dispatch(ctx, cfg, sig)
	return nil
}

func (e *SignalEngine) scan(ctx context.Context, key string) (models.TradingSignal, error) {
	tickers, err := timed(ctx, e.metrics, "binance.ticker24h", e.cfg.CallTimeout, func(ctx context.Context) ([]models.Ticker, error) {
		return e.market.Tickers24h(ctx, e.cfg.Symbols)
	})
	if err != nil {
		return models.TradingSignal{}, err
	}

	target, err := SelectMover(tickers)
	if err != nil {
		return models.TradingSignal{}, err
	}
	price, _ := target.LastPrice.Float64()
	e.metrics.RecordLastPrice(target.Symbol, price)

	draft, err := timed(ctx, e.metrics, "gemini.signal", e.cfg.CallTimeout, func(ctx context.Context) (*models.SignalDraft, error) {
		return e.llm.Signal(ctx, key, target)
	})
	if err != nil {
		return models.TradingSignal{}, err
	}

	return models.TradingSignal{
		ID:        util.ShortID(signalIDLen),
		Action:    draft.Action,
		Entry:     draft.Entry,
		TP:        draft.TP,
		SL:        draft.SL,
		Reasoning: draft.Reasoning,
		VideoHook: draft.VideoHook,
		Pair:      target.Symbol,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// dispatch hands the committed signal to detached consumers. Failures here
// are logged only.
func (e *SignalEngine) dispatch(ctx context.Context, cfg models.SignalConfig, sig models.TradingSignal) {
	if e.queue != nil && cfg.TGToken != "" && cfg.TGChatID != "" {
		if err := e.queue.PublishMessage(ctx, JobTelegramSignal, sig); err != nil {
			e.log.Warn("telegram relay not queued", logger.String("signal_id", sig.ID), logger.Error(err))
		}
	}
	if e.router != nil {
		if err := e.router.RouteSignal(ctx, sig); err != nil {
			e.journal.Add(models.LogWarn, "Sink Fault: "+err.Error())
		}
	}
}

func cycleResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingAPIKey):
		return "skipped"
	default:
		return "error"
	}
}
