package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"ViralGen/internal/audio"
	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/history"
	"ViralGen/internal/opslog"
	"ViralGen/internal/scheduler"
	xhttp "ViralGen/pkg/http"
	"ViralGen/pkg/logger"
	"ViralGen/pkg/queue"
	"ViralGen/pkg/util"

	"github.com/google/uuid"
)

var (
	ErrVaultConfigured    = errors.New("vault already has a master key")
	ErrVaultSetupRequired = errors.New("vault master key not set")
	ErrWeakMasterKey      = errors.New("master key must be at least 6 characters")
	ErrInvalidMasterKey   = errors.New("invalid master key")
	ErrUnknownNiche       = errors.New("unknown niche")
)

type ContentFactoryConfig struct {
	Niche            models.Niche
	HistoryCap       int
	LogCap           int
	CallTimeout      time.Duration
	APIKeyConfigured bool
	MinMasterKeyLen  int
	AssetURLPrefix   string
	Defaults         models.Settings
}

// BackendProbe reports whether the companion node answered its last probe.
type BackendProbe interface {
	Online() bool
}

// FactoryStatus is the dashboard header state.
type FactoryStatus struct {
	Scheduler     scheduler.State `json:"scheduler"`
	Countdown     string          `json:"countdown"`
	Niche         models.Niche    `json:"niche"`
	SetupRequired bool            `json:"setupRequired"`
	Contents      int             `json:"contents"`
	Logs          []string        `json:"logs"`
}

// ContentFactory owns the content pipeline: vault settings, selected niche,
// content history, terminal log and autopilot scheduler.
type ContentFactory struct {
	cfg       ContentFactoryConfig
	gen       drepo.ContentGenerator
	assets    drepo.AssetStore
	store     drepo.SettingsStore
	estimator drepo.Estimator
	probe     BackendProbe
	queue     queue.QueueService
	router    *ResultRouter
	metrics   drepo.Metrics
	log       *logger.Logger

	journal  *opslog.Journal
	contents *history.Log[models.GenerationResult]
	sched    *scheduler.Scheduler

	mu       sync.RWMutex
	settings models.Settings
	niche    models.Niche
}

func NewContentFactory(
	cfg ContentFactoryConfig,
	gen drepo.ContentGenerator,
	assets drepo.AssetStore,
	store drepo.SettingsStore,
	estimator drepo.Estimator,
	probe BackendProbe,
	q queue.QueueService,
	router *ResultRouter,
	metrics drepo.Metrics,
	log *logger.Logger,
) *ContentFactory {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Niche == "" {
		cfg.Niche = models.NicheMotivation
	}
	if cfg.MinMasterKeyLen <= 0 {
		cfg.MinMasterKeyLen = 6
	}
	log = log.Component("content-factory")

	f := &ContentFactory{
		cfg:       cfg,
		gen:       gen,
		assets:    assets,
		store:     store,
		estimator: estimator,
		probe:     probe,
		queue:     q,
		router:    router,
		metrics:   metrics,
		log:       log,
		journal:   opslog.New(cfg.LogCap, log),
		contents:  history.New[models.GenerationResult](cfg.HistoryCap),
		settings:  cfg.Defaults,
		niche:     cfg.Niche,
	}
	f.sched = scheduler.New(f.cycle, cfg.Defaults.Frequency,
		scheduler.WithLogger(log),
		scheduler.WithOnCycle(func(r scheduler.CycleReport) {
			metrics.RecordCycle("factory", cycleResult(r.Err), r.Duration)
		}),
		scheduler.WithOnTick(func(s scheduler.State) {
			metrics.SetCountdown("factory", s.Countdown)
		}),
	)
	return f
}

func (f *ContentFactory) Journal() *opslog.Journal { return f.journal }

func (f *ContentFactory) Scheduler() *scheduler.Scheduler { return f.sched }

// Start loads the persisted vault once.
func (f *ContentFactory) Start(ctx context.Context) error {
	s, err := f.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	f.mu.Lock()
	f.settings = s
	f.mu.Unlock()
	if s.Frequency > 0 {
		_ = f.sched.SetInterval(s.Frequency)
	}
	f.journal.System("[SYSTEM] Factory Node Online")
	return nil
}

// Run drives the autopilot scheduler until ctx is done.
func (f *ContentFactory) Run(ctx context.Context) { f.sched.Run(ctx) }

func (f *ContentFactory) Settings() models.Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings
}

// SetupVault stores the first master key.
func (f *ContentFactory) SetupVault(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.settings.SetupRequired() {
		return ErrVaultConfigured
	}
	if len(key) < f.cfg.MinMasterKeyLen {
		return ErrWeakMasterKey
	}
	next := f.settings
	next.MasterKey = key
	if err := f.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	f.settings = next
	return nil
}

// Authorize checks key against the vault's master key.
func (f *ContentFactory) Authorize(key string) error {
	f.mu.RLock()
	master := f.settings.MasterKey
	f.mu.RUnlock()
	if master == "" {
		return ErrVaultSetupRequired
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(master)) != 1 {
		return ErrInvalidMasterKey
	}
	return nil
}

// SaveSettings validates and persists s. A blank master key keeps the
// current one.
func (f *ContentFactory) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	if err := xhttp.ValidateStruct(ctx, &s); err != nil {
		return models.Settings{}, err
	}
	if s.MasterKey != "" && len(s.MasterKey) < f.cfg.MinMasterKeyLen {
		return models.Settings{}, ErrWeakMasterKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s.MasterKey == "" {
		s.MasterKey = f.settings.MasterKey
	}
	if s.Platforms == nil {
		s.Platforms = f.settings.Platforms
	}
	if err := f.store.Save(ctx, s); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	f.settings = s
	_ = f.sched.SetInterval(s.Frequency)
	return s, nil
}

func (f *ContentFactory) Niche() models.Niche {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.niche
}

func (f *ContentFactory) SetNiche(name string) (models.Niche, error) {
	n, ok := models.ParseNiche(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNiche, name)
	}
	f.mu.Lock()
	f.niche = n
	f.mu.Unlock()
	return n, nil
}

// SetAutoPilot arms with a full countdown of the configured frequency, or
// disarms.
func (f *ContentFactory) SetAutoPilot(enabled bool) (scheduler.State, error) {
	if !enabled {
		f.sched.Disarm()
		return f.sched.State(), nil
	}
	if err := f.sched.Arm(f.Settings().Frequency); err != nil {
		return scheduler.State{}, err
	}
	return f.sched.State(), nil
}

type blastResultKey struct{}

// ManualBlast runs one cycle, waits for it and returns the result that
// cycle committed.
func (f *ContentFactory) ManualBlast(ctx context.Context) (models.GenerationResult, error) {
	var res models.GenerationResult
	ctx = context.WithValue(context.WithoutCancel(ctx), blastResultKey{}, &res)
	ran, err := f.sched.TriggerManual(ctx)
	if !ran {
		return models.GenerationResult{}, ErrBusy
	}
	if err != nil {
		return models.GenerationResult{}, err
	}
	return res, nil
}

// Contents returns the content history, newest first.
func (f *ContentFactory) Contents() []models.GenerationResult { return f.contents.Snapshot() }

// Analytics sums the synthetic figures of every result.
func (f *ContentFactory) Analytics() models.AnalyticsSummary {
	items := f.contents.Snapshot()
	sum := models.AnalyticsSummary{
		ActiveChannels: f.Settings().LinkedPlatforms(),
		Items:          len(items),
	}
	for _, it := range items {
		sum.TotalProjectedReach += it.Analytics.ProjectedViews
		sum.TotalRevenue += it.Analytics.EstimatedRevenue
	}
	return sum
}

func (f *ContentFactory) Status() FactoryStatus {
	st := f.sched.State()
	return FactoryStatus{
		Scheduler:     st,
		Countdown:     util.FormatCountdown(st.Countdown),
		Niche:         f.Niche(),
		SetupRequired: f.Settings().SetupRequired(),
		Contents:      f.contents.Len(),
		Logs:          f.journal.Lines(),
	}
}

func (f *ContentFactory) cycle(ctx context.Context) error {
	if !f.cfg.APIKeyConfigured {
		f.metrics.RecordError("config")
		f.journal.Add(models.LogError, "ERR: No Gemini API Key provided.")
		return ErrMissingAPIKey
	}

	niche, settings := f.Niche(), f.Settings()
	f.journal.System("AI: Harvesting viral hooks...")

	res, err := f.produce(ctx, niche, settings)
	if err != nil {
		f.metrics.RecordError("content_cycle")
		f.journal.Add(models.LogError, "ERR: "+err.Error())
		return err
	}

	f.contents.Push(res)
	f.metrics.SetHistorySize("contents", f.contents.Len())
	if out, ok := ctx.Value(blastResultKey{}).(*models.GenerationResult); ok {
		*out = res
	}

	if f.router != nil {
		if err := f.router.RouteContent(ctx, res); err != nil {
			f.journal.Add(models.LogWarn, "WARN: "+err.Error())
		}
	}
	f.notify(ctx, settings, res)
	return nil
}

func (f *ContentFactory) produce(ctx context.Context, niche models.Niche, settings models.Settings) (models.GenerationResult, error) {
	script, err := timed(ctx, f.metrics, "gemini.script", f.cfg.CallTimeout, func(ctx context.Context) (*models.Script, error) {
		return f.gen.Script(ctx, niche)
	})
	if err != nil {
		return models.GenerationResult{}, err
	}

	type image struct{ data, mime string }
	img, err := timed(ctx, f.metrics, "gemini.image", f.cfg.CallTimeout, func(ctx context.Context) (image, error) {
		data, mime, err := f.gen.Image(ctx, script.VisualPrompt)
		return image{data, mime}, err
	})
	if err != nil {
		return models.GenerationResult{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(img.data)
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("decode image: %w", err)
	}
	imageID, err := f.assets.Put(ctx, raw, img.mime)
	if err != nil {
		return models.GenerationResult{}, fmt.Errorf("store image: %w", err)
	}

	pcm, err := timed(ctx, f.metrics, "gemini.speech", f.cfg.CallTimeout, func(ctx context.Context) (string, error) {
		return f.gen.Speech(ctx, script.Narration)
	})
	if err != nil {
		return models.GenerationResult{}, err
	}

	platforms := append([]models.PlatformStatus(nil), settings.Platforms...)
	return models.GenerationResult{
		ID:        uuid.NewString(),
		Niche:     niche,
		Hook:      script.Hook,
		VideoURL:  f.cfg.AssetURLPrefix + imageID,
		AudioURL:  f.packageAudio(ctx, pcm),
		Timestamp: time.Now().UnixMilli(),
		Platforms: platforms,
		Metadata: models.Metadata{
			Title:       script.Title,
			Description: script.Description,
			Tags:        script.Tags,
		},
		Analytics: f.estimator.Estimate(niche),
	}, nil
}

// packageAudio wraps the narration PCM in a WAV asset. Any failure yields
// a result without audio rather than failing the cycle.
func (f *ContentFactory) packageAudio(ctx context.Context, pcmB64 string) string {
	if pcmB64 == "" {
		return ""
	}
	pcm := audio.DecodeBase64(pcmB64)
	if len(pcm) == 0 {
		f.metrics.RecordError("audio_decode")
		f.journal.Add(models.LogWarn, "WARN: Narration payload unreadable, shipping without audio.")
		return ""
	}
	wav, err := audio.EncodeWAV(pcm, audio.GeminiTTSFormat)
	if err != nil {
		f.journal.Add(models.LogWarn, "WARN: "+err.Error())
		return ""
	}
	id, err := f.assets.Put(ctx, wav, "audio/wav")
	if err != nil {
		f.journal.Add(models.LogWarn, "WARN: "+err.Error())
		return ""
	}
	return f.cfg.AssetURLPrefix + id
}

// notify queues the companion hand-off when the node was last seen online.
func (f *ContentFactory) notify(ctx context.Context, settings models.Settings, res models.GenerationResult) {
	if f.queue == nil || f.probe == nil || !f.probe.Online() {
		return
	}
	f.journal.System("PUSH: Notifying Render Node...")
	err := f.queue.PublishMessage(ctx, JobAutoPost, autoPostPayload{
		BackendURL: settings.BackendURL,
		Request:    models.AutoPostRequest{Item: res, Credentials: settings.Redacted()},
	})
	if err != nil {
		f.journal.Add(models.LogError, "ERR: "+err.Error())
	}
}
