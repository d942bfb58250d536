package usecase

import (
	"errors"

	"ViralGen/internal/domain/models"
)

var ErrNoMarketData = errors.New("no market data for watch list")

// SelectMover returns the ticker with the largest absolute 24h change.
// Ties go to the earliest ticker in the slice.
func SelectMover(tickers []models.Ticker) (models.Ticker, error) {
	if len(tickers) == 0 {
		return models.Ticker{}, ErrNoMarketData
	}
	best := tickers[0]
	bestAbs := best.PriceChangePercent.Abs()
	for _, t := range tickers[1:] {
		if abs := t.PriceChangePercent.Abs(); abs.GreaterThan(bestAbs) {
			best, bestAbs = t, abs
		}
	}
	return best, nil
}
