//go:build wireinject
// +build wireinject

package di

import (
	"ViralGen/pkg/config"
	"ViralGen/pkg/server"

	"github.com/google/wire"
)

var commonSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
)

var sinkSet = wire.NewSet(
	ProvideKafkaProducer,
	ProvidePublisher,
	ProvideArchive,
	ProvideResultRouter,
)

// InitializeSignalsApp wires the market-signal engine.
func InitializeSignalsApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		commonSet,
		sinkSet,
		ProvideRedisCache,
		ProvideQueue,
		ProvideBinanceClient,
		ProvideGeminiClient,
		ProvideTelegramNotifier,
		ProvideRateLimiter,
		ProvideSignalEngine,
		ProvideSignalsHandler,
		ProvideSignalsHTTPServer,
		ProvideSignalsApp,
	)
	return &server.App{}, nil
}

// InitializeFactoryApp wires the content factory.
func InitializeFactoryApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		commonSet,
		sinkSet,
		ProvideRedisCache,
		ProvideCache,
		ProvideQueue,
		ProvideGeminiClient,
		ProvideCompanionClient,
		ProvideRateLimiter,
		ProvideFactoryNode,
		ProvideFactoryHandler,
		ProvideFactoryHTTPServer,
		ProvideFactoryApp,
	)
	return &server.App{}, nil
}

// InitializeCompanionApp wires the auto-post receiver.
func InitializeCompanionApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		commonSet,
		ProvideKafkaProducer,
		ProvidePublisher,
		ProvideCompanion,
		ProvideCompanionHandler,
		ProvideCompanionHTTPServer,
		ProvideCompanionApp,
	)
	return &server.App{}, nil
}

// InitializeArchiverApp wires the Kafka to ClickHouse archiver.
func InitializeArchiverApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		commonSet,
		ProvideArchiverArchive,
		ProvideKafkaConsumer,
		ProvideArchiverApp,
	)
	return &server.App{}, nil
}
