package usecase

import (
	"context"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var calendarNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newCalendar(data *stubData) *CalendarUseCase {
	uc := NewCalendarUseCase(data, applogger.Nop())
	uc.now = func() time.Time { return calendarNow }
	return uc
}

func TestEarningsFiltersMegaCaps(t *testing.T) {
	data := &stubData{earnings: []models.EarningsEvent{
		{Symbol: "AAPL", Date: "2025-03-12", Hour: "amc", EPSEstimate: f64(1.62), EPSActual: nil, Quarter: 1, Year: 2025},
		{Symbol: "ZZZZ", Date: "2025-03-12", Hour: "bmo"},
		{Symbol: "jpm", Date: "2025-03-13", Hour: "bmo", EPSEstimate: f64(0), EPSActual: f64(4.1)},
		{Symbol: "NVDA", Date: "2025-03-14", Hour: "dmh"},
	}}

	rows, err := newCalendar(data).Earnings(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"2025-03-10", "2025-06-08"}, data.earnRange)

	require.Len(t, rows, 3)
	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Equal(t, "amc", rows[0].Time)
	require.NotNil(t, rows[0].EPSEstimate)
	assert.Equal(t, "1.62", *rows[0].EPSEstimate)
	assert.Nil(t, rows[0].EPSActual)

	assert.Equal(t, "jpm", rows[1].Symbol)
	assert.Equal(t, "bmo", rows[1].Time)
	assert.Nil(t, rows[1].EPSEstimate)
	assert.Equal(t, "4.1", *rows[1].EPSActual)

	assert.Equal(t, "amc", rows[2].Time)
}

func TestEarningsKeepsExplicitRange(t *testing.T) {
	data := &stubData{}
	rows, err := newCalendar(data).Earnings(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, [2]string{"2025-01-01", "2025-01-31"}, data.earnRange)
}

func TestEarningsUpstreamError(t *testing.T) {
	_, err := newCalendar(&stubData{failCal: true}).Earnings(context.Background(), "", "")
	assert.ErrorIs(t, err, errUpstream)
}

func TestEconomicCalendarUSOnlySorted(t *testing.T) {
	data := &stubData{economic: []models.EconomicEvent{
		{Date: "2025-03-12 12:30:00", Event: "CPI", Country: "US", Impact: "high", Actual: f64(0), Estimate: f64(0.3)},
		{Date: "2025-03-11", Event: "BoE Speech", Country: "GB", Impact: "medium"},
		{Date: "2025-03-10 14:00:00", Event: "JOLTS", Country: "US", Impact: "medium"},
		{Date: "2025-03-10 09:00:00", Event: "NFIB", Country: "US", Impact: "low"},
	}}
	for range 60 {
		data.economic = append(data.economic, models.EconomicEvent{Date: "2025-03-20", Event: "Filler", Country: "US"})
	}

	out, err := newCalendar(data).EconomicCalendar(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 50)
	assert.Equal(t, "NFIB", out[0].Event)
	assert.Equal(t, "JOLTS", out[1].Event)
	assert.Equal(t, "CPI", out[2].Event)
	assert.Nil(t, out[2].Actual)
	assert.Equal(t, 0.3, *out[2].Estimate)
	for _, e := range out {
		assert.Equal(t, "US", e.Country)
	}
}

func TestFedEventsMergesUpstream(t *testing.T) {
	data := &stubData{economic: []models.EconomicEvent{
		{Date: "2025-01-29", Event: "Fed Interest Rate Decision", Country: "US", Impact: "high"},
		{Date: "2030-01-05 15:00:00", Event: "Fed Governor Waller Speaks", Country: "US", Impact: "medium"},
		{Date: "2030-01-06", Event: "Interest Rate Decision", Country: "US", Impact: "high"},
		{Date: "2030-01-07", Event: "Retail Sales", Country: "US", Impact: "high"},
	}}

	out := newCalendar(data).FedEvents(context.Background())
	require.Len(t, out, len(fedSchedule)+2)

	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1].Date, out[i].Date)
	}
	tail := out[len(out)-2:]
	assert.Equal(t, models.FedEvent{Date: "2030-01-05", Name: "Fed Governor Waller Speaks", Type: "speech", Importance: "medium"}, tail[0])
	assert.Equal(t, models.FedEvent{Date: "2030-01-06", Name: "Interest Rate Decision", Type: "rate_decision", Importance: "high"}, tail[1])
}

func TestFedEventsUpstreamFailure(t *testing.T) {
	out := newCalendar(&stubData{failCal: true}).FedEvents(context.Background())
	assert.Equal(t, fedSchedule, out)
}

func TestForexNewsCategories(t *testing.T) {
	data := &stubData{economic: []models.EconomicEvent{
		{Date: "2025-03-14", Event: "Initial Jobless Claims", Country: "US", Impact: "high"},
		{Date: "2025-03-13", Event: "Core CPI MoM", Country: "US", Impact: "high", Estimate: f64(0.3)},
		{Date: "2025-03-12", Event: "Retail Sales", Country: "US", Impact: "high"},
		{Date: "2025-03-11", Event: "Housing Starts", Country: "US", Impact: "high"},
		{Date: "2025-03-10", Event: "ISM Manufacturing PMI", Country: "US", Impact: "high"},
		{Date: "2025-03-09", Event: "Non-Farm Payrolls", Country: "US", Impact: "high"},
		{Date: "2025-03-09", Event: "GDP Growth Rate", Country: "US", Impact: "medium"},
		{Date: "2025-03-09", Event: "CPI", Country: "DE", Impact: "high"},
	}}

	out, err := newCalendar(data).ForexNews(context.Background())
	require.NoError(t, err)

	got := make(map[string]string, len(out))
	for _, e := range out {
		got[e.Event] = e.Category
	}
	assert.Equal(t, map[string]string{
		"Non-Farm Payrolls":      "Employment",
		"ISM Manufacturing PMI":  "Economic",
		"Housing Starts":         "Housing",
		"Retail Sales":           "Consumer",
		"Core CPI MoM":           "Inflation",
		"Initial Jobless Claims": "Employment",
	}, got)
	assert.Equal(t, "Non-Farm Payrolls", out[0].Event)
	assert.Equal(t, "Initial Jobless Claims", out[len(out)-1].Event)
	assert.Equal(t, 0.3, *out[4].Forecast)
}

func TestForexCategoryOrder(t *testing.T) {
	tests := map[string]string{
		"FOMC Statement":          "Fed",
		"Consumer Price Index":    "Consumer",
		"Fed Chair Speech":        "Fed",
		"Building Permits":        "Housing",
		"Continuing Claims":       "Employment",
		"Unemployment Rate":       "Employment",
		"PPI MoM":                 "Inflation",
		"Michigan Sentiment":      "Economic",
		"Existing Home Sales":     "Consumer",
		"Durable Goods Orders":    "Economic",
		"Prelim GDP Price Index":  "Growth",
		"Inflation Expectations":  "Inflation",
		"Federal Budget Balance":  "Fed",
		"Redbook Index":           "Economic",
		"Housing Price Index YoY": "Housing",
	}
	for event, want := range tests {
		assert.Equal(t, want, forexCategory(event), event)
	}
}
