package briefing

import (
	"strings"

	"MarketPulse/internal/domain/models"
)

const maxEarnings = 5

// evaluateEarnings emits at most one factor; reports dated today take precedence.
func evaluateEarnings(s *models.MarketSnapshot) []contribution {
	entries := s.UpcomingEarnings
	if len(entries) > maxEarnings {
		entries = entries[:maxEarnings]
	}
	if len(entries) == 0 {
		return nil
	}

	all := make([]string, 0, len(entries))
	var today []string
	for _, e := range entries {
		all = append(all, e.Symbol+" ("+e.Date+")")
		if e.Date == s.AsOfDate {
			today = append(today, e.Symbol)
		}
	}
	list := strings.Join(all, ", ")

	if len(today) > 0 {
		return []contribution{contrib("Mega-Cap Earnings Today", list, -5,
			"Major earnings today: "+strings.Join(today, ", ")+". NQ/MNQ could see significant moves post-report. Consider reducing position size ahead of the release.")}
	}
	return []contribution{contrib("Mega-Cap Earnings This Week", list, 0,
		"Upcoming mega-cap earnings this week: "+list+". Keep on radar for potential NQ/MNQ volatility.")}
}
