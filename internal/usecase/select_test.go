package usecase

import (
	"testing"

	"ViralGen/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func tickers(changes ...string) []models.Ticker {
	out := make([]models.Ticker, len(changes))
	for i, c := range changes {
		out[i] = models.Ticker{
			Symbol:             string(rune('A'+i)) + "USDT",
			LastPrice:          decimal.NewFromInt(1),
			PriceChangePercent: decimal.RequireFromString(c),
		}
	}
	return out
}

func TestSelectMoverFirstMaxWins(t *testing.T) {
	t.Parallel()
	got, err := SelectMover(tickers("2.0", "-5.5", "5.5", "-1.0"))
	require.NoError(t, err)
	require.Equal(t, "BUSDT", got.Symbol)
	require.Equal(t, "-5.5", got.PriceChangePercent.String())
}

func TestSelectMoverPositiveAfterNegative(t *testing.T) {
	t.Parallel()
	got, err := SelectMover(tickers("5.5", "-5.5"))
	require.NoError(t, err)
	require.Equal(t, "AUSDT", got.Symbol)
}

func TestSelectMoverEmpty(t *testing.T) {
	t.Parallel()
	_, err := SelectMover(nil)
	require.ErrorIs(t, err, ErrNoMarketData)
}

func TestSelectMoverIsMaximalAndFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		changes := make([]string, n)
		for i := range changes {
			// Small integer range forces frequent ties.
			changes[i] = decimal.NewFromInt(int64(rapid.IntRange(-5, 5).Draw(t, "c"))).String()
		}
		ts := tickers(changes...)

		got, err := SelectMover(ts)
		if err != nil {
			t.Fatal(err)
		}
		idx := -1
		for i, tk := range ts {
			if tk.Symbol == got.Symbol {
				idx = i
			}
		}
		for i, tk := range ts {
			cmp := tk.PriceChangePercent.Abs().Cmp(got.PriceChangePercent.Abs())
			if cmp > 0 || (cmp == 0 && i < idx) {
				t.Fatalf("picked %s at %d, but %s at %d beats it", got.Symbol, idx, tk.Symbol, i)
			}
		}
	})
}
