//go:build wireinject
// +build wireinject

package di

import (
	"SolPulse/pkg/config"
	"SolPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideQuickCache,

		// Repositories
		ProvideHistoryStore,
		ProvidePredictionPublisher,
		ProvideMarketStream,
		ProvideNotifier,

		// Analysis
		ProvideScrapers,
		ProvideKeywordScorer,
		ProvideEngine,
		ProvideSentimentClient,

		// Use cases
		ProvidePipeline,
		ProvideResultChecker,
		ProvideRunManager,
		ProvideQuickData,
		ProvidePriceCollector,
		ProvideAlertsHandler,
		ProvideScheduler,

		// Transport
		ProvideDashboardHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
