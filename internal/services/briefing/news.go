package briefing

import (
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

const (
	maxHeadlines = 20
	newsMargin   = 3
)

var (
	bearishKeywords = []string{"crash", "recession", "plunge", "selloff", "sell-off", "crisis", "fear", "downgrade", "layoffs", "warning", "risk", "tariff", "war"}
	bullishKeywords = []string{"rally", "surge", "record", "breakout", "upgrade", "growth", "boom", "beat", "strong", "hire", "bullish"}
)

// countKeywords counts one hit per keyword contained in text. Matching is by substring.
func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func evaluateNews(s *models.MarketSnapshot) []contribution {
	headlines := s.RecentHeadlines
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}

	var bull, bear int
	for _, h := range headlines {
		text := strings.ToLower(h.Text)
		bear += countKeywords(text, bearishKeywords)
		bull += countKeywords(text, bullishKeywords)
	}

	switch {
	case bull > bear+newsMargin:
		return []contribution{contrib("Positive News Flow",
			fmt.Sprintf("%d bullish vs %d bearish signals", bull, bear), 5,
			fmt.Sprintf("News sentiment is leaning bullish with %d positive signals vs %d negative.", bull, bear))}
	case bear > bull+newsMargin:
		return []contribution{contrib("Negative News Flow",
			fmt.Sprintf("%d bearish vs %d bullish signals", bear, bull), -5,
			fmt.Sprintf("News flow is bearish-tilted with %d negative signals vs %d positive — sentiment headwind for longs.", bear, bull))}
	default:
		return nil
	}
}
