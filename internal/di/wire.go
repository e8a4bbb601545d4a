//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/internal/handler/api"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/config"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

var marketDataSet = wire.NewSet(
	ProvideMetrics,
	ProvideCache,
	ProvideFinnhubLimiter,
	ProvideFinnhubREST,
	ProvideMarketData,
)

var tapeSet = wire.NewSet(
	ProvideClickHouseClient,
	ProvideTradeStorage,
	ProvideKafkaProducer,
	ProvideTradePublisher,
	ProvideTapeSink,
	ProvideKafkaConsumer,
	ProvideTapeHandler,
	ProvideTapeHealth,
)

var briefingSet = wire.NewSet(
	usecase.NewSnapshotAssembler,
	ProvideBriefingScorer,
	ProvideBriefingUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, log *applogger.Logger) (*server.App, func(), error) {
	wire.Build(
		marketDataSet,
		tapeSet,
		briefingSet,

		ProvideTechnicalData,
		ProvideFinnhubStream,
		ProvideTradeRelay,

		// Use cases
		usecase.NewMarketUseCase,
		usecase.NewNewsUseCase,
		usecase.NewCalendarUseCase,
		usecase.NewTechnicalsUseCase,
		usecase.NewTradeHistoryUseCase,

		// Handlers
		api.NewMarketEchoHandler,
		api.NewCalendarEchoHandler,
		api.NewTechnicalsEchoHandler,
		api.NewTradesEchoHandler,
		api.NewBriefingEchoHandler,
		ProvideWSHandler,
		ProvideRateLimiter,
		ProvideRouter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeBriefing wires the one-shot briefing used by the CLI.
func InitializeBriefing(cfg *config.Config, log *applogger.Logger) (*usecase.BriefingUseCase, func(), error) {
	wire.Build(
		marketDataSet,
		briefingSet,
	)
	return nil, nil, nil
}
