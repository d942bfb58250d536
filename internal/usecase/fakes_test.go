package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"

	"github.com/shopspring/decimal"
)

type fakeMarket struct {
	tickers []models.Ticker
	err     error
	calls   int
}

func (f *fakeMarket) Tickers24h(context.Context, []string) ([]models.Ticker, error) {
	f.calls++
	return f.tickers, f.err
}

type fakeSignalLLM struct {
	draft   models.SignalDraft
	err     error
	gotKey  string
	gotPair string
	block   chan struct{}
}

func (f *fakeSignalLLM) Signal(_ context.Context, key string, t models.Ticker) (*models.SignalDraft, error) {
	if f.block != nil {
		<-f.block
	}
	f.gotKey, f.gotPair = key, t.Symbol
	if f.err != nil {
		return nil, f.err
	}
	d := f.draft
	return &d, nil
}

type fakeGenerator struct {
	script    *models.Script
	scriptErr error
	image     string
	imageErr  error
	speech    string
	speechErr error
}

func (f *fakeGenerator) Script(context.Context, models.Niche) (*models.Script, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	s := *f.script
	return &s, nil
}

func (f *fakeGenerator) Image(context.Context, string) (string, string, error) {
	return f.image, "image/png", f.imageErr
}

func (f *fakeGenerator) Speech(context.Context, string) (string, error) {
	return f.speech, f.speechErr
}

type fakeAssets struct {
	mu    sync.Mutex
	items map[string][]byte
	mimes map[string]string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{items: map[string][]byte{}, mimes: map[string]string{}}
}

func (f *fakeAssets) Put(_ context.Context, data []byte, mime string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("a%d", len(f.items)+1)
	f.items[id] = data
	f.mimes[id] = mime
	return id, nil
}

func (f *fakeAssets) Get(_ context.Context, id string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, "", errors.New("missing")
	}
	return b, f.mimes[id], nil
}

type fakeSettings struct {
	saved models.Settings
	saves int
}

func (f *fakeSettings) Load(context.Context) (models.Settings, error) { return f.saved, nil }

func (f *fakeSettings) Save(_ context.Context, s models.Settings) error {
	f.saved = s
	f.saves++
	return nil
}

type fixedEstimator struct{ views int64 }

func (e fixedEstimator) Estimate(models.Niche) models.Analytics {
	return models.Analytics{ProjectedViews: e.views}
}

type staticProbe bool

func (p staticProbe) Online() bool { return bool(p) }

type published struct {
	msgType string
	payload json.RawMessage
}

type fakeQueue struct {
	mu   sync.Mutex
	msgs []published
}

func (q *fakeQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, published{msgType, raw})
	return nil
}

type fakePublisher struct {
	signals  []models.TradingSignal
	contents []models.GenerationResult
	autoPost []models.GenerationResult
	err      error
}

func (p *fakePublisher) PublishSignal(_ context.Context, s models.TradingSignal) error {
	p.signals = append(p.signals, s)
	return p.err
}

func (p *fakePublisher) PublishContent(_ context.Context, r models.GenerationResult) error {
	p.contents = append(p.contents, r)
	return p.err
}

func (p *fakePublisher) PublishAutoPost(_ context.Context, r models.GenerationResult) error {
	p.autoPost = append(p.autoPost, r)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeArchive struct {
	signals  []models.TradingSignal
	contents []models.GenerationResult
	err      error
}

func (a *fakeArchive) Init(context.Context) error { return nil }

func (a *fakeArchive) StoreSignal(_ context.Context, s models.TradingSignal) error {
	a.signals = append(a.signals, s)
	return a.err
}

func (a *fakeArchive) StoreContent(_ context.Context, r models.GenerationResult) error {
	a.contents = append(a.contents, r)
	return a.err
}

func (a *fakeArchive) Health(context.Context) error { return nil }
func (a *fakeArchive) Close() error                 { return nil }

var (
	_ drepo.MarketData       = (*fakeMarket)(nil)
	_ drepo.SignalGenerator  = (*fakeSignalLLM)(nil)
	_ drepo.ContentGenerator = (*fakeGenerator)(nil)
	_ drepo.AssetStore       = (*fakeAssets)(nil)
	_ drepo.SettingsStore    = (*fakeSettings)(nil)
	_ drepo.Publisher        = (*fakePublisher)(nil)
	_ drepo.Archive          = (*fakeArchive)(nil)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
