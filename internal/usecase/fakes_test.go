package usecase

import (
	"context"
	"errors"
	"sync"

	"MarketPulse/internal/domain/models"
)

var errUpstream = errors.New("upstream down")

// stubData serves canned responses. Symbols missing from quotes fail.
type stubData struct {
	mu        sync.Mutex
	quotes    map[string]models.Quote
	news      []models.NewsArticle
	economic  []models.EconomicEvent
	earnings  []models.EarningsEvent
	status    map[string]any
	search    []models.SymbolMatch
	failCal   bool
	failNews  bool
	calls     []string
	earnRange [2]string
}

func (s *stubData) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubData) Quote(_ context.Context, symbol string) (models.Quote, error) {
	s.record("quote:" + symbol)
	q, ok := s.quotes[symbol]
	if !ok {
		return models.Quote{}, errUpstream
	}
	q.Symbol = symbol
	return q, nil
}

func (s *stubData) CompanyProfile(context.Context, string) (map[string]any, error) {
	return map[string]any{"name": "Apple Inc"}, nil
}

func (s *stubData) MarketNews(context.Context, string) ([]models.NewsArticle, error) {
	if s.failNews {
		return nil, errUpstream
	}
	return s.news, nil
}

func (s *stubData) CompanyNews(_ context.Context, symbol, from, to string) ([]models.NewsArticle, error) {
	s.record("company-news:" + symbol + ":" + from + ":" + to)
	return s.news, nil
}

func (s *stubData) EconomicCalendar(context.Context) ([]models.EconomicEvent, error) {
	if s.failCal {
		return nil, errUpstream
	}
	return s.economic, nil
}

func (s *stubData) EarningsCalendar(_ context.Context, from, to string) ([]models.EarningsEvent, error) {
	s.mu.Lock()
	s.earnRange = [2]string{from, to}
	s.mu.Unlock()
	if s.failCal {
		return nil, errUpstream
	}
	return s.earnings, nil
}

func (s *stubData) MarketStatus(context.Context, string) (map[string]any, error) {
	if s.status == nil {
		return nil, errUpstream
	}
	return s.status, nil
}

func (s *stubData) Search(context.Context, string) ([]models.SymbolMatch, error) {
	return s.search, nil
}

func f64(v float64) *float64 { return &v }
