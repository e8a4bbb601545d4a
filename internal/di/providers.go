package di

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/domain/service"
	"MarketPulse/internal/handler/api"
	"MarketPulse/internal/handler/ws"
	mid "MarketPulse/internal/middleware"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/alphavantage"
	"MarketPulse/internal/service/finnhub"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/services/briefing"
	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/cache"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"

	"golang.org/x/time/rate"
)

const schemaTimeout = 10 * time.Second

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the response cache selected by cache.backend.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	var c cache.Service
	switch cfg.Cache.Backend {
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		c = rc
		if cfg.Cache.Backend == "layered" {
			c = cache.NewLayeredCache(rc,
				cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
				cache.WithLayeredMemoryTTL(cfg.Cache.TTL.Quote),
			)
		}
	default:
		c = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return c, func() { _ = c.Close() }, nil
}

// ProvideFinnhubLimiter paces outbound Finnhub REST calls.
func ProvideFinnhubLimiter(cfg *config.Config) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.Finnhub.RequestsPerSecond), cfg.Finnhub.Burst)
}

func ProvideFinnhubREST(cfg *config.Config, limiter *rate.Limiter, m repository.Metrics) *finnhub.REST {
	return finnhub.NewREST(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.RestURL,
		cfg.Finnhub.Timeout,
		finnhub.WithLimiter(limiter),
		finnhub.WithMetrics(m),
	)
}

// ProvideMarketData wraps the Finnhub client in the response cache.
func ProvideMarketData(rest *finnhub.REST, c cache.Service, cfg *config.Config) repository.MarketData {
	return internalrepo.NewCachedMarketData(rest, c, internalrepo.CacheTTL{
		Quote:    cfg.Cache.TTL.Quote,
		News:     cfg.Cache.TTL.News,
		Calendar: cfg.Cache.TTL.Calendar,
		Profile:  cfg.Cache.TTL.Profile,
		Search:   cfg.Cache.TTL.Search,
	})
}

// ProvideTechnicalData returns nil without an Alpha Vantage key.
func ProvideTechnicalData(cfg *config.Config, m repository.Metrics) repository.TechnicalData {
	if cfg.AlphaVantage.APIKey == "" {
		return nil
	}
	return alphavantage.New(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.RestURL, cfg.AlphaVantage.Timeout, m)
}

// ProvideFinnhubStream creates the Finnhub trade WebSocket stream.
func ProvideFinnhubStream(cfg *config.Config, log *applogger.Logger) usecase.RelayStream {
	return finnhub.NewStream(cfg.Finnhub.APIKey, cfg.Finnhub.WebSocketURL, cfg.Finnhub.PingInterval, log)
}

// ProvideClickHouseClient connects to ClickHouse when any component needs it.
func ProvideClickHouseClient(cfg *config.Config, log *applogger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouseEnabled() {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("clickhouse close", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideTradeStorage creates the tape table and returns its repository, or nil without ClickHouse.
func ProvideTradeStorage(client *pkgch.Client) (repository.Storage, error) {
	if client == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseStorage(client)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer when the tape publishes to Kafka.
func ProvideKafkaProducer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if cfg.Tape.Backend != usecase.TapeKafka {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	cleanup := func() {
		if err := producer.Close(); err != nil {
			log.Warn("kafka producer close", applogger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideTradePublisher returns nil without a producer.
func ProvideTradePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideTapeSink builds the validating, throttling pipeline in front of the tape backend.
// It returns nil when the tape is disabled.
func ProvideTapeSink(cfg *config.Config, pub repository.Publisher, store repository.Storage, m repository.Metrics) usecase.TapeSink {
	if !cfg.TapeEnabled() {
		return nil
	}
	proc := usecase.NewTradeProcessor(pub, store, m, cfg.Tape.Backend)
	return mid.NewRealtimePipeline(proc, m,
		mid.WithMaxRPS(cfg.Tape.MaxRPS),
		mid.WithBufferSize(cfg.Tape.BufferSize),
		mid.WithFlushBatch(cfg.Tape.BatchSize),
	)
}

func ProvideTradeRelay(cfg *config.Config, stream usecase.RelayStream, tape usecase.TapeSink, m repository.Metrics, log *applogger.Logger) *usecase.TradeRelay {
	return usecase.NewTradeRelay(stream, tape, m, log, cfg.Finnhub.ReconnectDelay)
}

func consumesTape(cfg *config.Config, store repository.Storage) bool {
	return cfg.Tape.Backend == usecase.TapeKafka && cfg.Kafka.Consumer.Enabled && store != nil
}

// ProvideKafkaConsumer creates the tape consumer that drains Kafka into ClickHouse, or nil.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger, store repository.Storage) (*pkgkafka.Consumer, error) {
	if !consumesTape(cfg, store) {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTapeHandler handles the tape topic for the consumer, or nil.
func ProvideTapeHandler(cfg *config.Config, store repository.Storage, m repository.Metrics) pkgkafka.MessageHandler {
	if !consumesTape(cfg, store) {
		return nil
	}
	return usecase.NewTapeHandler(cfg.Kafka.Topic, store, m)
}

// ProvideTapeHealth exposes the tape store to /healthz, or nil.
func ProvideTapeHealth(store repository.Storage) api.HealthChecker {
	if store == nil {
		return nil
	}
	return store
}

func ProvideBriefingScorer() service.BriefingScorer {
	return briefing.New()
}

func ProvideBriefingUseCase(cfg *config.Config, asm *usecase.SnapshotAssembler, scorer service.BriefingScorer, m repository.Metrics) *usecase.BriefingUseCase {
	return usecase.NewBriefingUseCase(asm, scorer, m, cfg.Briefing.Timeout)
}

func ProvideWSHandler(cfg *config.Config, relay *usecase.TradeRelay, log *applogger.Logger) *ws.Handler {
	return ws.NewHandler(relay, log, cfg.Server.WSSendBuffer)
}

// ProvideRateLimiter returns nil when rate limiting is switched off.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.RateLimit.RPS <= 0 {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

// ProvideRouter mounts every HTTP surface.
func ProvideRouter(
	cfg *config.Config,
	market *api.MarketEchoHandler,
	calendar *api.CalendarEchoHandler,
	technicals *api.TechnicalsEchoHandler,
	trades *api.TradesEchoHandler,
	brief *api.BriefingEchoHandler,
	wsHandler *ws.Handler,
	limiter *ratelimit.Limiter,
	relay *usecase.TradeRelay,
	tape api.HealthChecker,
) xhttp.Handler {
	return api.NewRouter(api.RouterParams{
		Market:     market,
		Calendar:   calendar,
		Technicals: technicals,
		Trades:     trades,
		Briefing:   brief,
		WS:         wsHandler,
		Limiter:    limiter,
		Relay:      relay,
		Tape:       tape,
		StaticDir:  cfg.Server.StaticDir,
	})
}

func ProvideHTTPServer(cfg *config.Config, router xhttp.Handler, log *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(router, log,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	relay *usecase.TradeRelay,
	limiter *ratelimit.Limiter,
	consumer *pkgkafka.Consumer,
	tape pkgkafka.MessageHandler,
) *server.App {
	return server.New(cfg, log, httpServer, relay, limiter, consumer, tape)
}
