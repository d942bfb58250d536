package di

import (
	"context"
	"fmt"
	"time"

	domrepo "ViralGen/internal/domain/repository"
	"ViralGen/internal/handler/api"
	internalrepo "ViralGen/internal/repository"
	"ViralGen/internal/service/binance"
	"ViralGen/internal/service/companion"
	"ViralGen/internal/service/estimator"
	"ViralGen/internal/service/gemini"
	"ViralGen/internal/service/ratelimit"
	"ViralGen/internal/service/telegram"
	"ViralGen/internal/usecase"
	"ViralGen/pkg/cache"
	pkgch "ViralGen/pkg/clickhouse"
	"ViralGen/pkg/config"
	xhttp "ViralGen/pkg/http"
	pkgkafka "ViralGen/pkg/kafka"
	applogger "ViralGen/pkg/logger"
	"ViralGen/pkg/metrics"
	"ViralGen/pkg/queue"
	"ViralGen/pkg/server"
	"ViralGen/web"
)

const assetURLPrefix = "/api/assets/"

// ProvideLogger builds the root logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New(nil)
}

// ProvideRedisCache connects to Redis when it is enabled, else returns nil.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCache layers an in-process L1 over Redis, or falls back to memory.
func ProvideCache(rc *cache.RedisCache) cache.Service {
	if rc == nil {
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(128), cache.WithLayeredMemoryTTL(5*time.Minute))
}

// ProvideQueue picks the detached-task backend.
func ProvideQueue(cfg *config.Config, l *applogger.Logger, rc *cache.RedisCache) queue.Queue {
	qc := queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	if cfg.Queue.Backend == config.QueueRedis && rc != nil {
		return queue.NewRedisQueue(l, qc, rc.Client(), queue.WithKeyPrefix(cfg.Redis.Prefix+":queue"))
	}
	return queue.NewLocalQueue(l, qc)
}

// ProvideKafkaProducer creates a producer when brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher wraps the producer; nil when Kafka is not configured.
func ProvidePublisher(cfg *config.Config, producer *pkgkafka.Producer) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, internalrepo.Topics{
		Signals:  cfg.Kafka.Topics.Signals,
		Content:  cfg.Kafka.Topics.Content,
		AutoPost: cfg.Kafka.Topics.AutoPost,
	}, "viralgen-"+cfg.Environment)
}

func newClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArchive opens ClickHouse when results are sunk there; nil otherwise.
func ProvideArchive(cfg *config.Config, l *applogger.Logger) (domrepo.Archive, error) {
	if cfg.Sink.Type != config.SinkClickHouse {
		return nil, nil
	}
	return provideArchive(cfg, l)
}

// ProvideArchiverArchive always opens ClickHouse; the archiver has no other use.
func ProvideArchiverArchive(cfg *config.Config, l *applogger.Logger) (domrepo.Archive, error) {
	return provideArchive(cfg, l)
}

func provideArchive(cfg *config.Config, l *applogger.Logger) (domrepo.Archive, error) {
	client, err := newClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	archive := internalrepo.NewClickHouseArchive(client.DB(), client, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideResultRouter routes committed results to the configured sink.
func ProvideResultRouter(cfg *config.Config, pub domrepo.Publisher, archive domrepo.Archive, m domrepo.Metrics) *usecase.ResultRouter {
	return usecase.NewResultRouter(pub, archive, m, cfg.Sink.Type)
}

func ProvideGeminiClient(cfg *config.Config, l *applogger.Logger) *gemini.Client {
	return gemini.New(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		BaseURL:     cfg.Gemini.BaseURL,
		TextModel:   cfg.Gemini.TextModel,
		ImageModel:  cfg.Gemini.ImageModel,
		SpeechModel: cfg.Gemini.SpeechModel,
		Voice:       cfg.Gemini.Voice,
		Timeout:     cfg.Gemini.Timeout,
	}, l)
}

func ProvideBinanceClient(cfg *config.Config, l *applogger.Logger) *binance.Client {
	return binance.New(cfg.Binance.BaseURL, cfg.Binance.Timeout, l)
}

func ProvideTelegramNotifier(cfg *config.Config) *telegram.Notifier {
	return telegram.New(cfg.Telegram.BaseURL, cfg.Telegram.Timeout)
}

// ProvideRateLimiter guards manual triggers: a burst of 3, then one per 10 s.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New(3, 0.1)
}

// ProvideSignalEngine builds the engine and registers its Telegram relay job.
func ProvideSignalEngine(
	cfg *config.Config,
	market *binance.Client,
	llm *gemini.Client,
	notifier *telegram.Notifier,
	q queue.Queue,
	router *usecase.ResultRouter,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.SignalEngine {
	engine := usecase.NewSignalEngine(usecase.SignalEngineConfig{
		Symbols:         cfg.Binance.Symbols,
		IntervalMinutes: cfg.Signals.IntervalMinutes,
		HistoryCap:      cfg.Signals.HistoryCap,
		LogCap:          cfg.Signals.LogCap,
		CallTimeout:     cfg.Signals.CallTimeout,
		DefaultKey:      cfg.Gemini.APIKey,
		TGToken:         cfg.Telegram.Token,
		TGChatID:        cfg.Telegram.ChatID,
		AutoPilot:       cfg.Signals.AutoPilot,
	}, market, llm, q, router, m, l)
	q.RegisterJob(usecase.NewTelegramJob(notifier, engine.Config, engine.Journal(), cfg.Telegram.Timeout))
	return engine
}

func ProvideSignalsHandler(l *applogger.Logger, engine *usecase.SignalEngine, limiter *ratelimit.Limiter, cfg *config.Config) *api.SignalsEchoHandler {
	return api.NewSignalsEchoHandler(l, engine, limiter, web.FS(cfg.Servers.Signals.StaticDir))
}

func ProvideSignalsHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.SignalsEchoHandler) *xhttp.Server {
	return newHTTPServer(cfg, cfg.Servers.Signals, l, h)
}

func ProvideSignalsApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	engine *usecase.SignalEngine,
	q queue.Queue,
	router *usecase.ResultRouter,
) *server.App {
	app := server.New("signals", l, srv, cfg.Servers.Signals.ShutdownTimeout)
	app.Add(server.Component{Name: "result-router", Stop: router.Close})
	app.Add(queueComponent(q))
	app.Add(server.Component{Name: "signal-engine", Loop: engine.Run})
	return app
}

// FactoryNode bundles the content factory with the probe watching its
// companion; each needs the other.
type FactoryNode struct {
	Factory *usecase.ContentFactory
	Probe   *companion.Probe
	Assets  domrepo.AssetStore
}

func ProvideCompanionClient(cfg *config.Config) *companion.Client {
	return companion.NewClient(cfg.Factory.NotifyTimeout)
}

// ProvideFactoryNode builds the factory, its companion probe and the
// auto-post job.
func ProvideFactoryNode(
	cfg *config.Config,
	gem *gemini.Client,
	c cache.Service,
	client *companion.Client,
	q queue.Queue,
	router *usecase.ResultRouter,
	m domrepo.Metrics,
	l *applogger.Logger,
) *FactoryNode {
	defaults := defaultSettings(cfg)
	assets := internalrepo.NewCacheAssetStore(c, cfg.Factory.AssetTTL)
	store := internalrepo.NewCacheSettingsStore(c, cfg.Factory.SettingsKey, defaults)

	var factory *usecase.ContentFactory
	probe := companion.NewProbe(client, func() string {
		return factory.Settings().BackendURL
	}, cfg.Factory.StatusInterval, cfg.Factory.NotifyTimeout, l)

	factory = usecase.NewContentFactory(usecase.ContentFactoryConfig{
		Niche:            parseNiche(cfg.Factory.Category),
		HistoryCap:       cfg.Factory.HistoryCap,
		LogCap:           cfg.Factory.LogCap,
		CallTimeout:      cfg.Factory.CallTimeout,
		APIKeyConfigured: gem.HasKey(),
		MinMasterKeyLen:  cfg.Factory.MinMasterKeyLen,
		AssetURLPrefix:   assetURLPrefix,
		Defaults:         defaults,
	}, gem, assets, store,
		estimator.NewUniform(int64(cfg.Factory.ViewsMin), int64(cfg.Factory.ViewsMax)),
		probe, q, router, m, l)

	q.RegisterJob(usecase.NewAutoPostJob(client, factory.Journal(), m, cfg.Factory.NotifyTimeout))
	return &FactoryNode{Factory: factory, Probe: probe, Assets: assets}
}

func ProvideFactoryHandler(l *applogger.Logger, node *FactoryNode, limiter *ratelimit.Limiter) *api.FactoryEchoHandler {
	return api.NewFactoryEchoHandler(l, node.Factory, node.Assets, node.Probe, limiter)
}

func ProvideFactoryHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.FactoryEchoHandler) *xhttp.Server {
	return newHTTPServer(cfg, cfg.Servers.Factory, l, h)
}

func ProvideFactoryApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	node *FactoryNode,
	c cache.Service,
	q queue.Queue,
	router *usecase.ResultRouter,
) *server.App {
	app := server.New("factory", l, srv, cfg.Servers.Factory.ShutdownTimeout)
	app.Add(server.Component{Name: "cache", Stop: server.Closer(c.Close)})
	app.Add(server.Component{Name: "result-router", Stop: router.Close})
	app.Add(queueComponent(q))
	app.Add(server.Component{Name: "content-factory", Start: node.Factory.Start, Loop: node.Factory.Run})
	app.Add(server.Component{Name: "companion-probe", Loop: node.Probe.Run})
	return app
}

func ProvideCompanion(cfg *config.Config, pub domrepo.Publisher, m domrepo.Metrics, l *applogger.Logger) *usecase.Companion {
	return usecase.NewCompanion(cfg.Companion.HistoryCap, pub, m, l)
}

func ProvideCompanionHandler(l *applogger.Logger, c *usecase.Companion) *api.CompanionEchoHandler {
	return api.NewCompanionEchoHandler(l, c)
}

func ProvideCompanionHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.CompanionEchoHandler) *xhttp.Server {
	return newHTTPServer(cfg, cfg.Servers.Companion, l, h)
}

func ProvideCompanionApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, pub domrepo.Publisher) *server.App {
	app := server.New("companion", l, srv, cfg.Servers.Companion.ShutdownTimeout)
	if pub != nil {
		app.Add(server.Component{Name: "publisher", Stop: server.Closer(pub.Close)})
	}
	return app
}

// ProvideKafkaConsumer creates the archiver's consumer group.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: kafka.brokers is empty")
	}
	kc := cfg.Kafka.Consumer
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(kc.GroupID),
		pkgkafka.WithConsumerWorkers(kc.Workers, kc.BufferSize),
		pkgkafka.WithConsumerRetry(kc.RetryMax, kc.BackoffMin, kc.BackoffMax),
		pkgkafka.WithConsumerDLQ(kc.DLQTopic),
		pkgkafka.WithConsumerFetch(kc.MinBytes, kc.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideArchiverApp registers one archive handler per record topic.
func ProvideArchiverApp(
	cfg *config.Config,
	l *applogger.Logger,
	consumer *pkgkafka.Consumer,
	archive domrepo.Archive,
	m domrepo.Metrics,
) *server.App {
	consumer.SetHook(pkgkafka.LoggingHook{Log: l.Component("archiver"), Slow: time.Second})
	consumer.RegisterHandler(usecase.NewArchiveHandler(cfg.Kafka.Topics.Signals, usecase.KindSignal, archive, m))
	consumer.RegisterHandler(usecase.NewArchiveHandler(cfg.Kafka.Topics.Content, usecase.KindContent, archive, m))

	app := server.New("archiver", l, nil, 0)
	app.Add(server.Component{Name: "clickhouse", Stop: server.Closer(archive.Close)})
	app.Add(server.Component{
		Name:  "kafka-consumer",
		Start: func(context.Context) error { return consumer.Start() },
		Stop:  consumer.Stop,
	})
	return app
}
