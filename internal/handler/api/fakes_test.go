package api

import (
	"context"
	"encoding/base64"

	"ViralGen/internal/domain/models"

	"github.com/shopspring/decimal"
)

type stubMarket struct{}

func (stubMarket) Tickers24h(context.Context, []string) ([]models.Ticker, error) {
	return []models.Ticker{
		{Symbol: "BTCUSDT", LastPrice: decimal.RequireFromString("64000"), PriceChangePercent: decimal.RequireFromString("1.5")},
		{Symbol: "SOLUSDT", LastPrice: decimal.RequireFromString("150"), PriceChangePercent: decimal.RequireFromString("-7.2")},
	}, nil
}

type stubSignalLLM struct {
	block chan struct{}
}

func (s stubSignalLLM) Signal(_ context.Context, _ string, t models.Ticker) (*models.SignalDraft, error) {
	if s.block != nil {
		<-s.block
	}
	return &models.SignalDraft{
		Action: models.ActionShort, Entry: 150, TP: 140, SL: 155,
		Reasoning: "capitulation wick", VideoHook: t.Symbol + " is bleeding",
	}, nil
}

type stubGenerator struct{}

func (stubGenerator) Script(context.Context, models.Niche) (*models.Script, error) {
	return &models.Script{
		Hook: "Future is now", VisualPrompt: "neon city", Narration: "Listen.",
		Title: "Tomorrow", Description: "Tech", Tags: []string{"#tech"},
	}, nil
}

func (stubGenerator) Image(context.Context, string) (string, string, error) {
	return base64.StdEncoding.EncodeToString([]byte("png")), "image/png", nil
}

func (stubGenerator) Speech(context.Context, string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte{0, 1, 0, 2}), nil
}

type flatEstimator struct{}

func (flatEstimator) Estimate(models.Niche) models.Analytics {
	return models.Analytics{ProjectedViews: 1000}
}
