package briefing

import (
	"testing"

	"MarketPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func single(t *testing.T, out []contribution) models.Factor {
	t.Helper()
	require.Len(t, out, 1)
	return out[0].factor
}

func TestEvaluateVolatilityBoundaries(t *testing.T) {
	cases := []struct {
		vix    float64
		name   string
		points int
	}{
		{0, "VIX Extremely Low", 20},
		{13.999, "VIX Extremely Low", 20},
		{14.0, "VIX Low", 12},
		{17.99, "VIX Low", 12},
		{18, "VIX Normal", 0},
		{21.99, "VIX Normal", 0},
		{22, "VIX Elevated", -15},
		{29.99, "VIX Elevated", -15},
		{30, "VIX Spiking", -25},
		{82.7, "VIX Spiking", -25},
	}
	for _, tc := range cases {
		s := neutralSnapshot()
		s.VIX.Price = tc.vix
		f := single(t, evaluateVolatility(&s))
		assert.Equal(t, tc.name, f.Name, "vix=%v", tc.vix)
		assert.Equal(t, tc.points, f.Points, "vix=%v", tc.vix)
	}
}

func TestEvaluateVolatilityDetailRoundsToOneDecimal(t *testing.T) {
	s := neutralSnapshot()
	s.VIX.Price = 16.87
	f := single(t, evaluateVolatility(&s))
	assert.Equal(t, "VIX at 16.9 — below average volatility", f.Detail)
}

func TestEvaluateMomentumBoundaries(t *testing.T) {
	cases := []struct {
		spy, qqq float64
		name     string
		points   int
	}{
		{2, 2.5, "Strong Bullish Momentum", 18},
		{1, 1, "Mild Bullish Momentum", 10},
		{0.3, 0.3, "Mild Bullish Momentum", 10},
		{0.2, 0.2, "Flat Momentum", 0},
		{0, 0, "Flat Momentum", 0},
		{-0.2, -0.2, "Flat Momentum", 0},
		{-0.5, -0.5, "Mild Bearish Momentum", -10},
		{-1, -1, "Mild Bearish Momentum", -10},
		{-1.5, -1, "Strong Bearish Momentum", -18},
	}
	for _, tc := range cases {
		s := neutralSnapshot()
		s.SPY.ChangePercent = tc.spy
		s.QQQ.ChangePercent = tc.qqq
		f := single(t, evaluateMomentum(&s))
		assert.Equal(t, tc.name, f.Name, "spy=%v qqq=%v", tc.spy, tc.qqq)
		assert.Equal(t, tc.points, f.Points, "spy=%v qqq=%v", tc.spy, tc.qqq)
	}
}

func TestEvaluateMomentumSignsPercentages(t *testing.T) {
	s := neutralSnapshot()
	s.SPY.ChangePercent = 0
	s.QQQ.ChangePercent = -0.35
	out := evaluateMomentum(&s)
	f := single(t, out)
	assert.Equal(t, "SPY +0.00%, QQQ -0.35%", f.Detail)
	assert.Contains(t, out[0].sentence, "SPY (+0.00%) and QQQ (-0.35%)")
}

func TestEvaluateGlobalBoundaries(t *testing.T) {
	cases := []struct {
		avg    float64
		name   string
		points int
	}{
		{0.51, "Global Markets Bullish", 10},
		{0.5, "Global Markets Mixed-Positive", 5},
		{0.01, "Global Markets Mixed-Positive", 5},
		// Exactly flat is scored as Mixed-Negative, not Mixed-Positive.
		{0, "Global Markets Mixed-Negative", -5},
		{-0.5, "Global Markets Mixed-Negative", -5},
		{-0.51, "Global Markets Bearish", -10},
	}
	for _, tc := range cases {
		s := withGlobal(neutralSnapshot(), tc.avg)
		f := single(t, evaluateGlobal(&s))
		assert.Equal(t, tc.name, f.Name, "avg=%v", tc.avg)
		assert.Equal(t, tc.points, f.Points, "avg=%v", tc.avg)
	}
}

func TestEvaluateGlobalNarrativeListsRegions(t *testing.T) {
	s := neutralSnapshot()
	s.GlobalRegions[0].ChangePercent = 0.4
	s.GlobalRegions[1].ChangePercent = -1.2
	s.GlobalRegions[2].ChangePercent = 0
	s.GlobalRegions[3].ChangePercent = 1.25

	out := evaluateGlobal(&s)
	f := single(t, out)

	summary := "London (FTSE): +0.40%, Tokyo (Nikkei): -1.20%, Hong Kong (HSI): +0.00%, Frankfurt (DAX): +1.25%"
	assert.Equal(t, summary, f.Detail)
	assert.Equal(t, "Global markets: 2 of 4 major regions positive. "+summary+". Positive overnight tone supports MES/MNQ.", out[0].sentence)
}

func TestEvaluateCommodities(t *testing.T) {
	cases := []struct {
		gold, oil float64
		want      []string
	}{
		{0, 0, nil},
		{1, 2, nil},
		{-0.5, -2, nil},
		{1.01, 0, []string{"Gold Rising (Risk-Off)"}},
		{-0.51, 0, []string{"Gold Falling (Risk-On)"}},
		{0, 2.01, []string{"Oil Spiking"}},
		{0, -2.01, []string{"Oil Selling Off"}},
		{1.5, 3, []string{"Gold Rising (Risk-Off)", "Oil Spiking"}},
	}
	for _, tc := range cases {
		s := neutralSnapshot()
		s.Gold.ChangePercent = tc.gold
		s.Oil.ChangePercent = tc.oil
		var got []string
		for _, c := range evaluateCommodities(&s) {
			got = append(got, c.factor.Name)
		}
		assert.Equal(t, tc.want, got, "gold=%v oil=%v", tc.gold, tc.oil)
	}
}

func TestEvaluateCalendar(t *testing.T) {
	t.Run("no high impact", func(t *testing.T) {
		s := neutralSnapshot()
		s.EconomicEventsToday = []models.CalendarEvent{{Name: "Beige Book", Impact: models.ImpactMedium}}
		f := single(t, evaluateCalendar(&s))
		assert.Equal(t, models.Factor{Name: "No Major Data Today", Detail: "Light economic calendar", Points: 3}, f)
	})

	t.Run("penalty capped at three events", func(t *testing.T) {
		s := neutralSnapshot()
		for _, n := range []string{"CPI", "PPI", "Retail Sales", "GDP", "Low One"} {
			impact := models.ImpactHigh
			if n == "Low One" {
				impact = models.ImpactLow
			}
			s.EconomicEventsToday = append(s.EconomicEventsToday, models.CalendarEvent{Name: n, Impact: impact})
		}
		f := single(t, evaluateCalendar(&s))
		assert.Equal(t, "4 High-Impact Event(s) Today", f.Name)
		assert.Equal(t, "CPI, PPI, Retail Sales, GDP", f.Detail)
		assert.Equal(t, -15, f.Points)
	})

	t.Run("single event", func(t *testing.T) {
		s := neutralSnapshot()
		s.EconomicEventsToday = []models.CalendarEvent{{Name: "CPI", Impact: models.ImpactHigh}}
		f := single(t, evaluateCalendar(&s))
		assert.Equal(t, "1 High-Impact Event(s) Today", f.Name)
		assert.Equal(t, -5, f.Points)
	})
}

func TestEvaluateEarnings(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		s := neutralSnapshot()
		assert.Empty(t, evaluateEarnings(&s))
	})

	t.Run("today takes precedence", func(t *testing.T) {
		s := neutralSnapshot()
		s.UpcomingEarnings = []models.EarningsEntry{
			{Symbol: "MSFT", Date: "2025-03-20"},
			{Symbol: "NVDA", Date: asOf},
		}
		out := evaluateEarnings(&s)
		f := single(t, out)
		assert.Equal(t, "Mega-Cap Earnings Today", f.Name)
		assert.Equal(t, -5, f.Points)
		assert.Equal(t, "MSFT (2025-03-20), NVDA (2025-03-18)", f.Detail)
		assert.Contains(t, out[0].sentence, "Major earnings today: NVDA.")
		assert.NotContains(t, out[0].sentence, "MSFT")
	})

	t.Run("this week", func(t *testing.T) {
		s := neutralSnapshot()
		s.UpcomingEarnings = []models.EarningsEntry{{Symbol: "AAPL", Date: "2025-03-21"}}
		out := evaluateEarnings(&s)
		f := single(t, out)
		assert.Equal(t, "Mega-Cap Earnings This Week", f.Name)
		assert.Equal(t, 0, f.Points)
		assert.Contains(t, out[0].sentence, "AAPL (2025-03-21)")
	})
}

func TestCountKeywordsOnePerKeyword(t *testing.T) {
	text := "stocks rally after crash, rally continues"
	assert.Equal(t, 1, countKeywords(text, bullishKeywords))
	assert.Equal(t, 1, countKeywords(text, bearishKeywords))
}

func TestEvaluateNews(t *testing.T) {
	headlines := func(texts ...string) []models.Headline {
		out := make([]models.Headline, 0, len(texts))
		for _, t := range texts {
			out = append(out, models.Headline{Text: t})
		}
		return out
	}

	t.Run("balanced", func(t *testing.T) {
		s := neutralSnapshot()
		s.RecentHeadlines = headlines("Stocks RALLY despite crash fears")
		assert.Empty(t, evaluateNews(&s))
	})

	t.Run("bullish needs margin above three", func(t *testing.T) {
		s := neutralSnapshot()
		s.RecentHeadlines = headlines("Record rally", "Strong close")
		assert.Empty(t, evaluateNews(&s), "3 vs 0 is not above the margin")

		s.RecentHeadlines = headlines("Record rally", "Strong close", "Growth boom")
		f := single(t, evaluateNews(&s))
		assert.Equal(t, models.Factor{Name: "Positive News Flow", Detail: "5 bullish vs 0 bearish signals", Points: 5}, f)
	})

	t.Run("bearish", func(t *testing.T) {
		s := neutralSnapshot()
		s.RecentHeadlines = headlines("Recession fears", "Crisis deepens", "Tariff plunge")
		f := single(t, evaluateNews(&s))
		assert.Equal(t, "Negative News Flow", f.Name)
		assert.Equal(t, -5, f.Points)
	})

	t.Run("only first twenty scanned", func(t *testing.T) {
		s := neutralSnapshot()
		for i := 0; i < 20; i++ {
			s.RecentHeadlines = append(s.RecentHeadlines, models.Headline{Text: "quiet session"})
		}
		s.RecentHeadlines = append(s.RecentHeadlines, headlines("rally surge record breakout boom")...)
		assert.Empty(t, evaluateNews(&s))
	})
}
