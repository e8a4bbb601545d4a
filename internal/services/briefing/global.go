package briefing

import (
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

func evaluateGlobal(s *models.MarketSnapshot) []contribution {
	var sum float64
	positive := 0
	parts := make([]string, 0, len(s.GlobalRegions))
	for _, r := range s.GlobalRegions {
		sum += r.ChangePercent
		if r.ChangePercent > 0 {
			positive++
		}
		parts = append(parts, r.Name+": "+signedPct(r.ChangePercent))
	}
	avg := sum / float64(len(s.GlobalRegions))
	summary := strings.Join(parts, ", ")

	// avg == 0 deliberately lands in Mixed-Negative.
	var name string
	var points int
	switch {
	case avg > 0.5:
		name, points = "Global Markets Bullish", 10
	case avg > 0:
		name, points = "Global Markets Mixed-Positive", 5
	case avg >= -0.5:
		name, points = "Global Markets Mixed-Negative", -5
	default:
		name, points = "Global Markets Bearish", -10
	}

	tone := "Negative global sentiment may weigh on US futures."
	if avg > 0 {
		tone = "Positive overnight tone supports MES/MNQ."
	}
	sentence := fmt.Sprintf("Global markets: %d of %d major regions positive. %s. %s",
		positive, len(s.GlobalRegions), summary, tone)

	return []contribution{contrib(name, summary, points, sentence)}
}
