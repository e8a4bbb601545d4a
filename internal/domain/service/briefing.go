package service

import "MarketPulse/internal/domain/models"

// BriefingScorer reduces a market snapshot to a scored briefing.
type BriefingScorer interface {
	Compute(snapshot models.MarketSnapshot) models.BriefingResult
}
