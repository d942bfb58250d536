package repository

import (
	"context"
	"time"

	"ViralGen/internal/domain/models"
)

// MarketData fetches 24h ticker statistics.
type MarketData interface {
	Tickers24h(ctx context.Context, symbols []string) ([]models.Ticker, error)
}

// ContentGenerator produces scripts, images and speech.
type ContentGenerator interface {
	Script(ctx context.Context, niche models.Niche) (*models.Script, error)
	// Image returns the base64 image payload and its MIME type.
	Image(ctx context.Context, prompt string) (data, mimeType string, err error)
	// Speech returns base64-encoded raw PCM.
	Speech(ctx context.Context, text string) (string, error)
}

// SignalGenerator asks an LLM for a trading signal.
type SignalGenerator interface {
	Signal(ctx context.Context, apiKey string, t models.Ticker) (*models.SignalDraft, error)
}

// SettingsStore persists the vault under a single fixed key.
type SettingsStore interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) error
}

// AssetStore keeps generated binary assets addressable by id.
type AssetStore interface {
	Put(ctx context.Context, data []byte, mimeType string) (string, error)
	Get(ctx context.Context, id string) ([]byte, string, error)
}

// Publisher forwards committed results downstream.
type Publisher interface {
	PublishSignal(ctx context.Context, s models.TradingSignal) error
	PublishContent(ctx context.Context, r models.GenerationResult) error
	PublishAutoPost(ctx context.Context, r models.GenerationResult) error
	Close() error
}

// Archive stores committed results for later analysis.
type Archive interface {
	Init(ctx context.Context) error
	StoreSignal(ctx context.Context, s models.TradingSignal) error
	StoreContent(ctx context.Context, r models.GenerationResult) error
	Health(ctx context.Context) error
	Close() error
}

// Notifier delivers a signal to an operator channel.
type Notifier interface {
	NotifySignal(ctx context.Context, token, chatID string, s models.TradingSignal) error
}

type Metrics interface {
	RecordCycle(component, result string, d time.Duration)
	RecordCall(call string, d time.Duration, err error)
	RecordError(kind string)
	SetCountdown(component string, seconds int)
	SetHistorySize(name string, n int)
	RecordLastPrice(symbol string, price float64)
	RecordPublished(sink, kind string, err error)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordCycle(string, string, time.Duration) {}
func (NopMetrics) RecordCall(string, time.Duration, error) {}
func (NopMetrics) RecordError(string) {}
func (NopMetrics) SetCountdown(string, int) {}
func (NopMetrics) SetHistorySize(string, int) {}
func (NopMetrics) RecordLastPrice(string, float64) {}
func (NopMetrics) RecordPublished(string, string, error) {}

// Estimator fills the synthetic analytics block of a new result.
type Estimator interface {
	Estimate(niche models.Niche) models.Analytics
}
