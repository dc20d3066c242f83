//go:build wireinject
// +build wireinject

package di

import (
	"TimeWise/pkg/config"
	"TimeWise/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvidePointStorage,
		ProvidePointPublisher,
		ProvideFeedStream,

		// Use cases
		ProvidePointProcessor,
		ProvidePointCollector,
		ProvideKafkaPointsHandler,
		ProvideTrendAnalyzer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
