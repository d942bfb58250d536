package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"ViralGen/internal/domain/models"
	"ViralGen/pkg/config"

	"github.com/stretchr/testify/require"
)

var signalIDPattern = regexp.MustCompile(`^[0-9A-Z]{5}$`)

func newSignalFixture(defaultKey string) (*SignalEngine, *fakeMarket, *fakeSignalLLM, *fakeQueue, *fakePublisher) {
	market := &fakeMarket{tickers: []models.Ticker{
		{Symbol: "BTCUSDT", LastPrice: dec("64000"), PriceChangePercent: dec("2.0")},
		{Symbol: "ETHUSDT", LastPrice: dec("3100"), PriceChangePercent: dec("-5.5")},
		{Symbol: "SOLUSDT", LastPrice: dec("150"), PriceChangePercent: dec("5.5")},
	}}
	llm := &fakeSignalLLM{draft: models.SignalDraft{
		Action: models.ActionShort, Entry: 3100, TP: 2950, SL: 3180,
		Reasoning: "Momentum rolled over.", VideoHook: "ETH just blinked.",
	}}
	q := &fakeQueue{}
	pub := &fakePublisher{}
	e := NewSignalEngine(SignalEngineConfig{
		Symbols:         []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
		IntervalMinutes: 15,
		HistoryCap:      15,
		LogCap:          50,
		CallTimeout:     time.Second,
		DefaultKey:      defaultKey,
	}, market, llm, q, NewResultRouter(pub, nil, nil, config.SinkKafka), nil, nil)
	return e, market, llm, q, pub
}

func TestSignalCycleCommitsLargestMover(t *testing.T) {
	t.Parallel()
	e, _, llm, _, pub := newSignalFixture("env-key")

	require.NoError(t, e.ManualScan(context.Background()))

	signals := e.Signals()
	require.Len(t, signals, 1)
	s := signals[0]
	require.Equal(t, "ETHUSDT", s.Pair)
	require.Equal(t, models.ActionShort, s.Action)
	require.Regexp(t, signalIDPattern, s.ID)
	require.InDelta(t, time.Now().UnixMilli(), s.Timestamp, 5000)
	require.Equal(t, "env-key", llm.gotKey)

	logs := e.Journal().Entries()
	require.Equal(t, "Alpha Pulse: SHORT ETHUSDT", logs[0].Content)
	require.Equal(t, models.LogResponse, logs[0].Type)
	require.Equal(t, "Manual scan pulse...", logs[1].Content)

	require.Len(t, pub.signals, 1)
	require.Equal(t, s.ID, pub.signals[0].ID)
}

func TestSignalCycleMissingKeySkips(t *testing.T) {
	t.Parallel()
	e, market, _, _, _ := newSignalFixture("")

	err := e.ManualScan(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIKey)
	require.Zero(t, market.calls)
	require.Empty(t, e.Signals())

	logs := e.Journal().Entries()
	require.Equal(t, models.LogError, logs[0].Type)
	require.Equal(t, "No Gemini API Key provided.", logs[0].Content)
}

func TestSignalCycleFailureLeavesHistory(t *testing.T) {
	t.Parallel()
	e, _, llm, _, _ := newSignalFixture("k")
	require.NoError(t, e.ManualScan(context.Background()))

	llm.err = errors.New("quota exceeded")
	require.Error(t, e.ManualScan(context.Background()))

	require.Len(t, e.Signals(), 1)
	logs := e.Journal().Entries()
	require.Equal(t, "Engine Fault: quota exceeded", logs[0].Content)
	require.Equal(t, models.LogError, logs[0].Type)
}

func TestSignalCycleEmptyMarketFails(t *testing.T) {
	t.Parallel()
	e, market, _, _, _ := newSignalFixture("k")
	market.tickers = nil

	require.ErrorIs(t, e.ManualScan(context.Background()), ErrNoMarketData)
	require.Empty(t, e.Signals())
}

func TestSignalHistoryCapped(t *testing.T) {
	t.Parallel()
	e, _, _, _, _ := newSignalFixture("k")
	for i := 0; i < 20; i++ {
		require.NoError(t, e.ManualScan(context.Background()))
	}
	require.Len(t, e.Signals(), 15)
}

func TestUpdateConfigArmsAndFires(t *testing.T) {
	t.Parallel()
	e, _, _, _, _ := newSignalFixture("k")
	on, off := true, false

	cfg := e.UpdateConfig(models.SignalConfigPatch{AutoPilot: &on})
	require.True(t, cfg.AutoPilot)
	st := e.Scheduler().State()
	require.True(t, st.Armed)
	require.Zero(t, st.Countdown)

	e.Scheduler().Tick(context.Background())
	require.Len(t, e.Signals(), 1)
	require.Equal(t, 900, e.Scheduler().State().Countdown)
	require.Equal(t, "Scheduled scan pulse...", e.Journal().Entries()[1].Content)

	// Re-sending autoPost=true does not refire.
	e.UpdateConfig(models.SignalConfigPatch{AutoPilot: &on})
	require.Equal(t, 900, e.Scheduler().State().Countdown)

	e.UpdateConfig(models.SignalConfigPatch{AutoPilot: &off})
	require.False(t, e.Scheduler().State().Armed)
	require.Equal(t, "Registry updated.", e.Journal().Entries()[0].Content)
}

func TestUpdateConfigMergesAndStatusMasks(t *testing.T) {
	t.Parallel()
	e, _, llm, q, _ := newSignalFixture("")
	key, token, chat := "AIzaSyExample1234", "123456:telegram-token", "-1001"

	e.UpdateConfig(models.SignalConfigPatch{GeminiKey: &key})
	e.UpdateConfig(models.SignalConfigPatch{TGToken: &token, TGChatID: &chat})
	require.Equal(t, key, e.Config().GeminiKey)

	st := e.Status()
	require.Equal(t, "*************1234", st.Config.GeminiKey)
	require.NotContains(t, st.Config.TGToken, "telegram")
	require.Equal(t, chat, st.Config.TGChatID)

	require.NoError(t, e.ManualScan(context.Background()))
	require.Equal(t, key, llm.gotKey)
	require.Len(t, q.msgs, 1)
	require.Equal(t, JobTelegramSignal, q.msgs[0].msgType)
}

func TestManualScanBusy(t *testing.T) {
	t.Parallel()
	e, _, llm, _, _ := newSignalFixture("k")
	llm.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- e.ManualScan(context.Background()) }()
	require.Eventually(t, func() bool { return e.Scheduler().State().Busy }, time.Second, time.Millisecond)

	require.ErrorIs(t, e.ManualScan(context.Background()), ErrBusy)

	close(llm.block)
	require.NoError(t, <-done)
	require.Len(t, e.Signals(), 1)
}
