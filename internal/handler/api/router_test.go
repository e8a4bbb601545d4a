package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/services/briefing"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketData struct {
	quotes map[string]models.Quote
	down   bool
}

func (f *fakeMarketData) Quote(_ context.Context, symbol string) (models.Quote, error) {
	if f.down {
		return models.Quote{}, errors.New("connection refused")
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.Quote{}, errors.New("unknown symbol")
	}
	q.Symbol = symbol
	return q, nil
}

func (f *fakeMarketData) CompanyProfile(context.Context, string) (map[string]any, error) {
	return map[string]any{"name": "Apple Inc", "ticker": "AAPL"}, nil
}

func (f *fakeMarketData) MarketNews(context.Context, string) ([]models.NewsArticle, error) {
	return nil, nil
}

func (f *fakeMarketData) CompanyNews(context.Context, string, string, string) ([]models.NewsArticle, error) {
	return nil, nil
}

func (f *fakeMarketData) EconomicCalendar(context.Context) ([]models.EconomicEvent, error) {
	if f.down {
		return nil, errors.New("connection refused")
	}
	return nil, nil
}

func (f *fakeMarketData) EarningsCalendar(context.Context, string, string) ([]models.EarningsEvent, error) {
	return nil, nil
}

func (f *fakeMarketData) MarketStatus(context.Context, string) (map[string]any, error) {
	return map[string]any{"isOpen": true, "exchange": "US"}, nil
}

func (f *fakeMarketData) Search(context.Context, string) ([]models.SymbolMatch, error) {
	return []models.SymbolMatch{{Symbol: "AAPL"}}, nil
}

type fakeRelayStatus struct{}

func (fakeRelayStatus) Clients() int      { return 2 }
func (fakeRelayStatus) IsConnected() bool { return true }

func newTestEcho(data *fakeMarketData, limiter *ratelimit.Limiter) *echo.Echo {
	log := xlogger.Nop()
	m := metrics.Nop{}
	router := NewRouter(RouterParams{
		Market:     NewMarketEchoHandler(log, usecase.NewMarketUseCase(data, log), usecase.NewNewsUseCase(data)),
		Calendar:   NewCalendarEchoHandler(log, usecase.NewCalendarUseCase(data, log)),
		Technicals: NewTechnicalsEchoHandler(log, usecase.NewTechnicalsUseCase(nil)),
		Trades:     NewTradesEchoHandler(log, usecase.NewTradeHistoryUseCase(nil)),
		Briefing: NewBriefingEchoHandler(log, usecase.NewBriefingUseCase(
			usecase.NewSnapshotAssembler(data, log), briefing.New(), m, 0)),
		Limiter: limiter,
		Relay:   fakeRelayStatus{},
	})
	e := echo.New()
	router.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuoteUppercasesSymbol(t *testing.T) {
	e := newTestEcho(&fakeMarketData{quotes: map[string]models.Quote{"AAPL": {Price: 190.5}}}, nil)

	rec := do(e, http.MethodGet, "/api/quote/aapl", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var q models.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 190.5, q.Price)
}

func TestUpstreamFailureIs502(t *testing.T) {
	e := newTestEcho(&fakeMarketData{down: true}, nil)

	rec := do(e, http.MethodGet, "/api/quote/AAPL", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp struct {
		Data []xhttp.AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ERR_UPSTREAM", resp.Data[0].Code)
}

func TestFuturesNoData(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	rec := do(e, http.MethodGet, "/api/futures/cl=f", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"symbol":"CL=F","error":"No data available"}`, rec.Body.String())
}

func TestSearchRequiresQuery(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/search", nil).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/search?q=apple", nil).Code)
}

func TestMarketStatusRoute(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	rec := do(e, http.MethodGet, "/api/market-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"open","isOpen":true,"exchange":"US"}`, rec.Body.String())
}

func TestTechnicalsRoutes(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/intraday/AAPL?interval=2min", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/indicator/AAPL", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/indicator/AAPL?indicator=macd", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/api/intraday/AAPL", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/api/indicator/AAPL?indicator=RSI", nil).Code)
}

func TestTradesWithoutTape(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/api/trades/AAPL", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/trades/AAPL?from=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/trades/AAPL?to=notatime", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/trades/AAPL?limit=0", nil).Code)
}

func TestDailyBriefingDefaultsFailedSources(t *testing.T) {
	e := newTestEcho(&fakeMarketData{down: true}, nil)

	rec := do(e, http.MethodGet, "/api/daily-briefing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))

	var resp models.BriefingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// zero VIX is extremely low (+20), flat momentum, avg 0 global (-5), no events (+3)
	assert.Equal(t, 68, resp.Score)
	assert.Equal(t, models.SignalBull, resp.Signal)
	assert.NotNil(t, resp.Data.TodaysEvents)
}

func TestScoreSnapshot(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	body := []byte(`{
		"vix": {"price": 20},
		"globalRegions": [{"name":"London"},{"name":"Tokyo"},{"name":"Hong Kong"},{"name":"Frankfurt"}],
		"economicEventsToday": [],
		"asOfDate": "2025-03-11"
	}`)
	rec := do(e, http.MethodPost, "/api/daily-briefing/score", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.BriefingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 48, resp.Score)
	assert.Equal(t, models.SignalNeutral, resp.Signal)
	require.Len(t, resp.Factors, 4)
	assert.Equal(t, "Global Markets Mixed-Negative", resp.Factors[2].Name)
}

func TestScoreRejectsMalformedSnapshot(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	tests := map[string]string{
		"missing date":   `{"globalRegions":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"}]}`,
		"bad impact":     `{"asOfDate":"2025-03-11","globalRegions":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"}],"economicEventsToday":[{"name":"CPI","impact":"huge"}]}`,
		"unnamed region": `{"asOfDate":"2025-03-11","globalRegions":[{"name":"a"},{"name":""},{"name":"c"},{"name":"d"}]}`,
		"not json":       `{"asOfDate":`,
		"five regions":   `{"asOfDate":"2025-03-11","globalRegions":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e","changePercent":9}]}`,
		"three regions":  `{"asOfDate":"2025-03-11","globalRegions":[{"name":"a"},{"name":"b"},{"name":"c"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/daily-briefing/score", []byte(body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, ratelimit.New(0.001, 1))

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/fed-events", nil).Code)
	rec := do(e, http.MethodGet, "/api/fed-events", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// operational routes are not limited
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", nil).Code)
}

func TestHealth(t *testing.T) {
	e := newTestEcho(&fakeMarketData{}, nil)

	rec := do(e, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","clients":2,"upstreamConnected":true,"tape":"disabled"}`, rec.Body.String())
}
