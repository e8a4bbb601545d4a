package server

import (
	"context"
	"fmt"

	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	relay      *usecase.TradeRelay
	limiter    *ratelimit.Limiter
	consumer   *pkgkafka.Consumer
	tape       pkgkafka.MessageHandler
}

// New creates a new App instance. consumer and tape may be nil.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	relay *usecase.TradeRelay,
	limiter *ratelimit.Limiter,
	consumer *pkgkafka.Consumer,
	tape pkgkafka.MessageHandler,
) *App {
	return &App{
		cfg:        cfg,
		log:        log.Component("app"),
		httpServer: httpServer,
		relay:      relay,
		limiter:    limiter,
		consumer:   consumer,
		tape:       tape,
	}
}

// Run starts every component and blocks until ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.relay.Start(runCtx)
	if a.limiter != nil {
		go a.limiter.Run(runCtx)
	}

	if a.consumer != nil && a.tape != nil {
		a.consumer.RegisterHandler(a.tape)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start tape consumer: %w", err)
		}
		a.log.Info("tape consumer started", applogger.String("topic", a.tape.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.log.Info("marketpulse started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("tape", a.cfg.Tape.Backend),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops accepting requests first, then drains the relay and the consumer.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	a.relay.Shutdown()

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
