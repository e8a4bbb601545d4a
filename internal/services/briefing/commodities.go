package briefing

import (
	"fmt"

	"MarketPulse/internal/domain/models"
)

// evaluateCommodities scores gold and oil independently; either, both or neither may fire.
func evaluateCommodities(s *models.MarketSnapshot) []contribution {
	var out []contribution

	g := s.Gold.ChangePercent
	switch {
	case g > 1:
		out = append(out, contrib("Gold Rising (Risk-Off)", "Gold "+signedPct(g), -5,
			fmt.Sprintf("Gold up %.2f%% — flight to safety suggests some risk-off sentiment.", g)))
	case g < -0.5:
		out = append(out, contrib("Gold Falling (Risk-On)", "Gold "+signedPct(g), 3,
			fmt.Sprintf("Gold down %.2f%% — risk-on rotation supports equity longs.", g)))
	}

	o := s.Oil.ChangePercent
	switch {
	case o > 2:
		out = append(out, contrib("Oil Spiking", "Oil "+signedPct(o), -3,
			fmt.Sprintf("Oil spiking %.2f%% — energy cost concerns may pressure broader market.", o)))
	case o < -2:
		out = append(out, contrib("Oil Selling Off", "Oil "+signedPct(o), -2,
			fmt.Sprintf("Oil down sharply (%.2f%%) — could signal demand concerns.", o)))
	}

	return out
}
