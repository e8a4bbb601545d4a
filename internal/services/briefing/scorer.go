package briefing

import (
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/service"
)

const baseScore = 50

// contribution is one evaluator output. Sentence may be empty.
type contribution struct {
	factor   models.Factor
	sentence string
}

func contrib(name, detail string, points int, sentence string) contribution {
	return contribution{
		factor:   models.Factor{Name: name, Detail: detail, Points: points},
		sentence: sentence,
	}
}

// evaluator inspects a snapshot and returns zero or more contributions.
type evaluator func(s *models.MarketSnapshot) []contribution

// evaluators run in this order; factor order in the result follows it.
var evaluators = []evaluator{
	evaluateVolatility,
	evaluateMomentum,
	evaluateGlobal,
	evaluateCommodities,
	evaluateCalendar,
	evaluateEarnings,
	evaluateNews,
}

// Scorer computes daily briefings. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	now func() time.Time
}

// Option configures Scorer.
type Option func(*Scorer)

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ service.BriefingScorer = (*Scorer)(nil)

// Compute scores the snapshot. It never fails; missing inputs are zero values.
func (sc *Scorer) Compute(snapshot models.MarketSnapshot) models.BriefingResult {
	score := baseScore
	factors := make([]models.Factor, 0, len(evaluators)+2)
	narrative := make([]string, 0, len(evaluators)+2)

	for _, eval := range evaluators {
		for _, c := range eval(&snapshot) {
			score += c.factor.Points
			factors = append(factors, c.factor)
			if c.sentence != "" {
				narrative = append(narrative, c.sentence)
			}
		}
	}

	score = clamp(score, 0, 100)
	return models.BriefingResult{
		Score:       score,
		Signal:      SignalFor(score),
		Factors:     factors,
		Narrative:   narrative,
		GeneratedAt: sc.now().UTC(),
	}
}

// Compute scores the snapshot with the default clock.
func Compute(snapshot models.MarketSnapshot) models.BriefingResult {
	return New().Compute(snapshot)
}

// SignalFor maps a clamped score to its signal label.
func SignalFor(score int) models.Signal {
	switch {
	case score >= 75:
		return models.SignalStrongBull
	case score >= 60:
		return models.SignalBull
	case score >= 45:
		return models.SignalNeutral
	case score >= 30:
		return models.SignalBear
	default:
		return models.SignalStrongBear
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
