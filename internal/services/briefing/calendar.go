package briefing

import (
	"fmt"
	"strings"

	"MarketPulse/internal/domain/models"
)

const maxPenalizedEvents = 3

func evaluateCalendar(s *models.MarketSnapshot) []contribution {
	var names []string
	for _, e := range s.EconomicEventsToday {
		if e.Impact == models.ImpactHigh {
			names = append(names, e.Name)
		}
	}

	h := len(names)
	if h == 0 {
		return []contribution{contrib("No Major Data Today", "Light economic calendar", 3,
			"Clean economic calendar today — no high-impact data releases. This typically means lower intraday volatility and more predictable price action on MES/MNQ.")}
	}

	list := strings.Join(names, ", ")
	return []contribution{contrib(
		fmt.Sprintf("%d High-Impact Event(s) Today", h),
		list,
		-5*min(h, maxPenalizedEvents),
		fmt.Sprintf("Heads up: %d high-impact release(s) today — %s. Expect elevated volatility around data prints. Consider tightening stops on MES/MNQ positions.", h, list),
	)}
}
