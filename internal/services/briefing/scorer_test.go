package briefing

import (
	"strings"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asOf = "2025-03-18"

// neutralSnapshot sits every input on its neutral boundary.
func neutralSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		VIX: models.PriceChange{Price: 20},
		GlobalRegions: [4]models.RegionChange{
			{Name: "London (FTSE)"},
			{Name: "Tokyo (Nikkei)"},
			{Name: "Hong Kong (HSI)"},
			{Name: "Frankfurt (DAX)"},
		},
		AsOfDate: asOf,
	}
}

func withGlobal(s models.MarketSnapshot, pct float64) models.MarketSnapshot {
	for i := range s.GlobalRegions {
		s.GlobalRegions[i].ChangePercent = pct
	}
	return s
}

func factorNames(r models.BriefingResult) []string {
	names := make([]string, 0, len(r.Factors))
	for _, f := range r.Factors {
		names = append(names, f.Name)
	}
	return names
}

func TestComputeNeutralInputs(t *testing.T) {
	r := Compute(neutralSnapshot())

	// VIX 0, momentum 0, global avg 0 is Mixed-Negative (-5), clean calendar +3.
	// These inputs are sometimes described as scoring a flat 50; the factor rules give 48 and are authoritative.
	assert.Equal(t, 48, r.Score)
	assert.Equal(t, models.SignalNeutral, r.Signal)
	assert.Equal(t, []string{
		"VIX Normal",
		"Flat Momentum",
		"Global Markets Mixed-Negative",
		"No Major Data Today",
	}, factorNames(r))
}

func TestComputeStrongBullClamps(t *testing.T) {
	s := withGlobal(neutralSnapshot(), 0.8)
	s.VIX.Price = 12
	s.SPY.ChangePercent = 2
	s.QQQ.ChangePercent = 2.5

	r := Compute(s)

	assert.Equal(t, 100, r.Score)
	assert.Equal(t, models.SignalStrongBull, r.Signal)
	assert.Equal(t, []string{
		"VIX Extremely Low",
		"Strong Bullish Momentum",
		"Global Markets Bullish",
		"No Major Data Today",
	}, factorNames(r))

	sum := 0
	for _, f := range r.Factors {
		sum += f.Points
	}
	assert.Equal(t, 51, sum, "raw score is 101 before clamping")
}

func TestComputeClampsAtZero(t *testing.T) {
	s := withGlobal(neutralSnapshot(), -2)
	s.VIX.Price = 45
	s.SPY.ChangePercent = -3
	s.QQQ.ChangePercent = -4
	s.Gold.ChangePercent = 2
	s.Oil.ChangePercent = 5
	s.EconomicEventsToday = []models.CalendarEvent{
		{Name: "CPI", Impact: models.ImpactHigh},
		{Name: "FOMC", Impact: models.ImpactHigh},
		{Name: "Retail Sales", Impact: models.ImpactHigh},
		{Name: "Jobless Claims", Impact: models.ImpactHigh},
	}
	s.UpcomingEarnings = []models.EarningsEntry{{Symbol: "NVDA", Date: asOf}}
	s.RecentHeadlines = []models.Headline{{Text: "Crash fears as recession risk and tariff war spark selloff"}}

	r := Compute(s)

	// 50 -25 -18 -10 -5 -3 -15 -5 -5 = -36
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, models.SignalStrongBear, r.Signal)
	assert.Len(t, r.Factors, 8)
}

func TestComputeScoreAlwaysBounded(t *testing.T) {
	for _, vix := range []float64{0, 5, 13.999, 14, 18, 22, 30, 80} {
		for _, m := range []float64{-10, -1, -0.2, 0, 0.2, 1, 10} {
			for _, g := range []float64{-3, -0.5, 0, 0.5, 3} {
				s := withGlobal(neutralSnapshot(), g)
				s.VIX.Price = vix
				s.SPY.ChangePercent = m
				s.QQQ.ChangePercent = m
				r := Compute(s)
				require.GreaterOrEqual(t, r.Score, 0)
				require.LessOrEqual(t, r.Score, 100)
				require.Equal(t, SignalFor(r.Score), r.Signal)
			}
		}
	}
}

func TestComputeMonotonicInVIX(t *testing.T) {
	prev := -1
	for vix := 60.0; vix >= 0; vix -= 0.5 {
		s := neutralSnapshot()
		s.VIX.Price = vix
		score := Compute(s).Score
		assert.GreaterOrEqual(t, score, prev, "vix=%.1f", vix)
		prev = score
	}
}

func TestComputeFactorsMatchNarrativeOrder(t *testing.T) {
	s := withGlobal(neutralSnapshot(), 0.3)
	s.Gold.ChangePercent = -1
	s.Oil.ChangePercent = -3
	s.UpcomingEarnings = []models.EarningsEntry{{Symbol: "AAPL", Date: "2025-03-20"}}

	r := Compute(s)

	require.Len(t, r.Narrative, len(r.Factors))
	assert.Equal(t, []string{
		"VIX Normal",
		"Flat Momentum",
		"Global Markets Mixed-Positive",
		"Gold Falling (Risk-On)",
		"Oil Selling Off",
		"No Major Data Today",
		"Mega-Cap Earnings This Week",
	}, factorNames(r))
	assert.Contains(t, r.Narrative[3], "Gold down -1.00%")
	assert.True(t, strings.HasPrefix(r.Briefing(), r.Narrative[0]+" "+r.Narrative[1]+" "))
}

func TestComputeUsesClock(t *testing.T) {
	at := time.Date(2025, 3, 18, 13, 30, 0, 0, time.UTC)
	r := New(WithClock(func() time.Time { return at })).Compute(neutralSnapshot())
	assert.True(t, r.GeneratedAt.Equal(at))
}

func TestSignalFor(t *testing.T) {
	cases := []struct {
		score int
		want  models.Signal
	}{
		{100, models.SignalStrongBull},
		{75, models.SignalStrongBull},
		{74, models.SignalBull},
		{60, models.SignalBull},
		{59, models.SignalNeutral},
		{45, models.SignalNeutral},
		{44, models.SignalBear},
		{30, models.SignalBear},
		{29, models.SignalStrongBear},
		{0, models.SignalStrongBear},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SignalFor(tc.score), "score=%d", tc.score)
	}
}
