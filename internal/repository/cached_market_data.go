package repository

import (
	"context"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/pkg/cache"
)

// CacheTTL holds per-resource expirations. A zero TTL disables caching for that resource.
type CacheTTL struct {
	Quote    time.Duration
	News     time.Duration
	Calendar time.Duration
	Profile  time.Duration
	Search   time.Duration
}

// CachedMarketData decorates a MarketData provider with read-through caching.
type CachedMarketData struct {
	next  repository.MarketData
	cache cache.Service
	ttl   CacheTTL
}

// NewCachedMarketData wraps next. A nil cache passes every call through.
func NewCachedMarketData(next repository.MarketData, c cache.Service, ttl CacheTTL) *CachedMarketData {
	return &CachedMarketData{next: next, cache: c, ttl: ttl}
}

var _ repository.MarketData = (*CachedMarketData)(nil)

const keyPrefix = "fh"

func (m *CachedMarketData) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "quote", symbol), m.ttl.Quote,
		func(ctx context.Context) (models.Quote, error) { return m.next.Quote(ctx, symbol) })
}

func (m *CachedMarketData) CompanyProfile(ctx context.Context, symbol string) (map[string]any, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "profile", symbol), m.ttl.Profile,
		func(ctx context.Context) (map[string]any, error) { return m.next.CompanyProfile(ctx, symbol) })
}

func (m *CachedMarketData) MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "news", category), m.ttl.News,
		func(ctx context.Context) ([]models.NewsArticle, error) { return m.next.MarketNews(ctx, category) })
}

func (m *CachedMarketData) CompanyNews(ctx context.Context, symbol, from, to string) ([]models.NewsArticle, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "company_news", symbol, from, to), m.ttl.News,
		func(ctx context.Context) ([]models.NewsArticle, error) {
			return m.next.CompanyNews(ctx, symbol, from, to)
		})
}

func (m *CachedMarketData) EconomicCalendar(ctx context.Context) ([]models.EconomicEvent, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "economic"), m.ttl.Calendar,
		func(ctx context.Context) ([]models.EconomicEvent, error) { return m.next.EconomicCalendar(ctx) })
}

func (m *CachedMarketData) EarningsCalendar(ctx context.Context, from, to string) ([]models.EarningsEvent, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "earnings", from, to), m.ttl.Calendar,
		func(ctx context.Context) ([]models.EarningsEvent, error) {
			return m.next.EarningsCalendar(ctx, from, to)
		})
}

// MarketStatus is never cached; the open/closed flag flips at session boundaries.
func (m *CachedMarketData) MarketStatus(ctx context.Context, exchange string) (map[string]any, error) {
	return m.next.MarketStatus(ctx, exchange)
}

func (m *CachedMarketData) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	return cache.Fetch(ctx, m.cache, cache.Key(keyPrefix, "search", strings.ToLower(query)), m.ttl.Search,
		func(ctx context.Context) ([]models.SymbolMatch, error) { return m.next.Search(ctx, query) })
}
