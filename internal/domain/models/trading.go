package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionLong  Action = "LONG"
	ActionShort Action = "SHORT"
)

// Ticker is a 24h statistics row for one trading pair.
type Ticker struct {
	Symbol             string          `json:"symbol"`
	LastPrice          decimal.Decimal `json:"lastPrice"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
}

// SignalDraft is the structured output of the signal LLM call.
type SignalDraft struct {
	Action    Action  `json:"action" validate:"required,oneof=LONG SHORT"`
	Entry     float64 `json:"entry" validate:"gt=0"`
	TP        float64 `json:"tp" validate:"gt=0"`
	SL        float64 `json:"sl" validate:"gt=0"`
	Reasoning string  `json:"reasoning" validate:"required"`
	VideoHook string  `json:"videoHook"`
}

// TradingSignal is one committed signal. Never mutated after creation.
type TradingSignal struct {
	ID        string  `json:"id"`
	Action    Action  `json:"action"`
	Entry     float64 `json:"entry"`
	TP        float64 `json:"tp"`
	SL        float64 `json:"sl"`
	Reasoning string  `json:"reasoning"`
	VideoHook string  `json:"videoHook"`
	Pair      string  `json:"pair"`
	Timestamp int64   `json:"timestamp"`
}

func (s TradingSignal) CreatedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// SignalConfig is the signal engine's runtime configuration.
type SignalConfig struct {
	GeminiKey string `json:"geminiKey"`
	TGToken   string `json:"tgToken"`
	TGChatID  string `json:"tgChatId"`
	AutoPilot bool   `json:"autoPilot"`
}

// SignalConfigPatch is a partial update; nil fields are left unchanged.
type SignalConfigPatch struct {
	GeminiKey *string `json:"geminiKey"`
	TGToken   *string `json:"tgToken"`
	TGChatID  *string `json:"tgChatId"`
	AutoPilot *bool   `json:"autoPilot"`
}

// Apply merges p into c.
func (p SignalConfigPatch) Apply(c SignalConfig) SignalConfig {
	if p.GeminiKey != nil {
		c.GeminiKey = *p.GeminiKey
	}
	if p.TGToken != nil {
		c.TGToken = *p.TGToken
	}
	if p.TGChatID != nil {
		c.TGChatID = *p.TGChatID
	}
	if p.AutoPilot != nil {
		c.AutoPilot = *p.AutoPilot
	}
	return c
}
