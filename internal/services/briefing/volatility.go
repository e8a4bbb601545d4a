package briefing

import (
	"fmt"

	"MarketPulse/internal/domain/models"
)

func evaluateVolatility(s *models.MarketSnapshot) []contribution {
	v := s.VIX.Price
	level := fmt.Sprintf("%.1f", v)

	switch {
	case v < 14:
		return []contribution{contrib("VIX Extremely Low",
			"VIX at "+level+" — very low volatility, strong risk appetite", 20,
			"VIX at "+level+" signals extremely low volatility — strong risk-on environment favoring long MES/MNQ positions.")}
	case v < 18:
		return []contribution{contrib("VIX Low",
			"VIX at "+level+" — below average volatility", 12,
			"VIX at "+level+" shows below-average volatility — constructive for bullish positioning.")}
	case v < 22:
		return []contribution{contrib("VIX Normal",
			"VIX at "+level+" — average range", 0,
			"VIX at "+level+" sitting in the normal range — no strong volatility signal.")}
	case v < 30:
		return []contribution{contrib("VIX Elevated",
			"VIX at "+level+" — elevated fear", -15,
			"VIX at "+level+" is elevated, signaling increased fear — consider caution on long MES/MNQ entries.")}
	default:
		return []contribution{contrib("VIX Spiking",
			"VIX at "+level+" — extreme fear/panic", -25,
			"VIX at "+level+" is in panic territory — high probability of continued selling pressure on MES/MNQ.")}
	}
}
