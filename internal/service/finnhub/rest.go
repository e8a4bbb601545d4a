package finnhub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/util"

	"golang.org/x/time/rate"
)

// ErrUpstream marks a response the provider rejected in its body.
var ErrUpstream = errors.New("finnhub: upstream error")

// REST implements MarketData against the Finnhub REST API.
type REST struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	metrics drepo.Metrics
}

// RESTOption configures REST.
type RESTOption func(*REST)

// WithLimiter sets the shared upstream limiter.
func WithLimiter(l *rate.Limiter) RESTOption {
	return func(r *REST) { r.limiter = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m drepo.Metrics) RESTOption {
	return func(r *REST) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewREST creates a Finnhub REST client.
func NewREST(apiKey, baseURL string, timeout time.Duration, opts ...RESTOption) *REST {
	r := &REST{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent("marketpulse/1.0")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ drepo.MarketData = (*REST)(nil)

func (r *REST) get(ctx context.Context, endpoint, path string, params map[string]string, dest interface{}) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("finnhub %s: %w", endpoint, err)
		}
	}

	q := map[string][]string{"token": {r.apiKey}}
	for k, v := range params {
		q[k] = []string{v}
	}

	start := time.Now()
	err := r.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         r.baseURL + path,
		QueryParams: q,
	}, dest)
	r.metrics.RecordUpstream("finnhub_"+endpoint, time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("finnhub %s: %w", endpoint, err)
	}
	return nil
}

type quoteResponse struct {
	C     *float64 `json:"c"`
	D     *float64 `json:"d"`
	DP    *float64 `json:"dp"`
	H     *float64 `json:"h"`
	L     *float64 `json:"l"`
	O     *float64 `json:"o"`
	PC    *float64 `json:"pc"`
	T     int64    `json:"t"`
	Error string   `json:"error"`
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Quote fetches the latest quote. Null fields become zero.
func (r *REST) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var raw quoteResponse
	if err := r.get(ctx, "quote", "/quote", map[string]string{"symbol": symbol}, &raw); err != nil {
		return models.Quote{}, err
	}
	if raw.Error != "" {
		return models.Quote{}, fmt.Errorf("%w: %s", ErrUpstream, raw.Error)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         num(raw.C),
		Change:        num(raw.D),
		ChangePercent: num(raw.DP),
		High:          num(raw.H),
		Low:           num(raw.L),
		Open:          num(raw.O),
		PreviousClose: num(raw.PC),
		Timestamp:     raw.T,
	}, nil
}

func (r *REST) CompanyProfile(ctx context.Context, symbol string) (map[string]any, error) {
	out := map[string]any{}
	if err := r.get(ctx, "profile", "/stock/profile2", map[string]string{"symbol": symbol}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type newsItem struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Datetime int64  `json:"datetime"`
	Summary  string `json:"summary"`
}

func (n newsItem) article() models.NewsArticle {
	a := models.NewsArticle{
		Headline: n.Headline,
		Source:   n.Source,
		URL:      n.URL,
		Summary:  n.Summary,
	}
	if n.Image != "" {
		img := n.Image
		a.Thumbnail = &img
	}
	if n.Datetime > 0 {
		ts := time.Unix(n.Datetime, 0).UTC()
		a.Timestamp = &ts
	}
	return a
}

func articles(items []newsItem) []models.NewsArticle {
	out := make([]models.NewsArticle, 0, len(items))
	for _, it := range items {
		out = append(out, it.article())
	}
	return out
}

func (r *REST) MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	var items []newsItem
	if err := r.get(ctx, "news", "/news", map[string]string{"category": category}, &items); err != nil {
		return nil, err
	}
	return articles(items), nil
}

func (r *REST) CompanyNews(ctx context.Context, symbol, from, to string) ([]models.NewsArticle, error) {
	var items []newsItem
	params := map[string]string{"symbol": symbol, "from": from, "to": to}
	if err := r.get(ctx, "company_news", "/company-news", params, &items); err != nil {
		return nil, err
	}
	return articles(items), nil
}

type economicItem struct {
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Event    string   `json:"event"`
	Country  string   `json:"country"`
	Impact   string   `json:"impact"`
	Actual   *float64 `json:"actual"`
	Estimate *float64 `json:"estimate"`
	Previous *float64 `json:"previous"`
	Prev     *float64 `json:"prev"`
	Unit     string   `json:"unit"`
}

// EconomicCalendar accepts either a bare array or the {"economicCalendar": [...]} envelope.
func (r *REST) EconomicCalendar(ctx context.Context) ([]models.EconomicEvent, error) {
	var raw []byte
	if err := r.get(ctx, "economic_calendar", "/calendar/economic", nil, &raw); err != nil {
		return nil, err
	}

	items, err := decodeEconomic(raw)
	if err != nil {
		return nil, fmt.Errorf("finnhub economic_calendar: %w", err)
	}

	out := make([]models.EconomicEvent, 0, len(items))
	for _, it := range items {
		date := it.Date
		if date == "" && len(it.Time) >= len(util.DateLayout) {
			date = it.Time[:len(util.DateLayout)]
		}
		prev := it.Previous
		if prev == nil {
			prev = it.Prev
		}
		out = append(out, models.EconomicEvent{
			Date:     date,
			Event:    it.Event,
			Country:  it.Country,
			Impact:   strings.ToLower(it.Impact),
			Actual:   it.Actual,
			Estimate: it.Estimate,
			Previous: prev,
			Unit:     it.Unit,
		})
	}
	return out, nil
}

func decodeEconomic(raw []byte) ([]economicItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var items []economicItem
	if raw[0] == '[' {
		err := json.Unmarshal(raw, &items)
		return items, err
	}
	var env struct {
		EconomicCalendar []economicItem `json:"economicCalendar"`
	}
	err := json.Unmarshal(raw, &env)
	return env.EconomicCalendar, err
}

func (r *REST) EarningsCalendar(ctx context.Context, from, to string) ([]models.EarningsEvent, error) {
	var env struct {
		EarningsCalendar []models.EarningsEvent `json:"earningsCalendar"`
	}
	params := map[string]string{"from": from, "to": to}
	if err := r.get(ctx, "earnings_calendar", "/calendar/earnings", params, &env); err != nil {
		return nil, err
	}
	return env.EarningsCalendar, nil
}

func (r *REST) MarketStatus(ctx context.Context, exchange string) (map[string]any, error) {
	out := map[string]any{}
	if err := r.get(ctx, "market_status", "/stock/market-status", map[string]string{"exchange": exchange}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *REST) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	var env struct {
		Result []models.SymbolMatch `json:"result"`
	}
	if err := r.get(ctx, "search", "/search", map[string]string{"q": query}, &env); err != nil {
		return nil, err
	}
	return env.Result, nil
}
