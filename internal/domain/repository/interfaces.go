package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// MarketData is the REST market-data provider (quotes, news, calendars).
type MarketData interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
	CompanyProfile(ctx context.Context, symbol string) (map[string]any, error)
	MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	CompanyNews(ctx context.Context, symbol, from, to string) ([]models.NewsArticle, error)
	EconomicCalendar(ctx context.Context) ([]models.EconomicEvent, error)
	EarningsCalendar(ctx context.Context, from, to string) ([]models.EarningsEvent, error)
	MarketStatus(ctx context.Context, exchange string) (map[string]any, error)
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// TechnicalData is the provider of intraday bars and indicators.
type TechnicalData interface {
	Intraday(ctx context.Context, symbol string, interval Interval) ([]models.IntradayPoint, error)
	Indicator(ctx context.Context, symbol string, ind Indicator) ([]models.IndicatorPoint, error)
}

// TradeStream is a real-time trade feed with dynamic subscriptions.
type TradeStream interface {
	Connect(ctx context.Context) error
	Subscribe(symbol string) error
	Unsubscribe(symbol string) error
	Read(ctx context.Context) (<-chan []models.Trade, <-chan error)
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, t *models.Trade) error
	PublishBatch(ctx context.Context, trades []*models.Trade) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, t *models.Trade) error
	StoreBatch(ctx context.Context, trades []*models.Trade) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Trade, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics receives operational measurements from every layer.
type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordUpstream(endpoint string, seconds float64, err error)
	RecordBriefing(score int, signal models.Signal)
	SetRelayClients(n int)
	SetRelaySubscriptions(n int)
	RecordTradesRelayed(n int)
}
