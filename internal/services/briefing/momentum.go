package briefing

import (
	"fmt"

	"MarketPulse/internal/domain/models"
)

func evaluateMomentum(s *models.MarketSnapshot) []contribution {
	spy, qqq := s.SPY.ChangePercent, s.QQQ.ChangePercent
	m := (spy + qqq) / 2

	sp, qp := signedPct(spy), signedPct(qqq)
	detail := fmt.Sprintf("SPY %s, QQQ %s", sp, qp)
	pair := fmt.Sprintf("SPY (%s) and QQQ (%s)", sp, qp)

	switch {
	case m > 1:
		return []contribution{contrib("Strong Bullish Momentum", detail, 18,
			pair+" showing strong upward momentum — MES/MNQ likely to follow.")}
	case m > 0.2:
		return []contribution{contrib("Mild Bullish Momentum", detail, 10,
			pair+" tilting positive — mild bullish bias for MES/MNQ.")}
	case m >= -0.2:
		return []contribution{contrib("Flat Momentum", detail, 0,
			pair+" are essentially flat — no clear directional bias from US index momentum.")}
	case m >= -1:
		return []contribution{contrib("Mild Bearish Momentum", detail, -10,
			pair+" tilting negative — cautious stance on MES/MNQ longs.")}
	default:
		return []contribution{contrib("Strong Bearish Momentum", detail, -18,
			pair+" in selloff mode — MES/MNQ likely to see continued selling pressure.")}
	}
}
