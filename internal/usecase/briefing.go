package usecase

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/domain/service"
)

// BriefingUseCase assembles a fresh snapshot and scores it. Nothing is cached or stored.
type BriefingUseCase struct {
	assembler *SnapshotAssembler
	scorer    service.BriefingScorer
	metrics   drepo.Metrics
	timeout   time.Duration
}

func NewBriefingUseCase(assembler *SnapshotAssembler, scorer service.BriefingScorer, metrics drepo.Metrics, timeout time.Duration) *BriefingUseCase {
	return &BriefingUseCase{assembler: assembler, scorer: scorer, metrics: metrics, timeout: timeout}
}

// Generate builds today's briefing from live data.
func (uc *BriefingUseCase) Generate(ctx context.Context) models.BriefingResponse {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	start := time.Now()
	snapshot := uc.assembler.Assemble(ctx)
	uc.metrics.RecordLatency("snapshot_assemble", time.Since(start).Seconds())

	return uc.Score(snapshot)
}

// Score computes a briefing for a caller-supplied snapshot.
func (uc *BriefingUseCase) Score(snapshot models.MarketSnapshot) models.BriefingResponse {
	result := uc.scorer.Compute(snapshot)
	uc.metrics.RecordBriefing(result.Score, result.Signal)
	return models.NewBriefingResponse(snapshot, result)
}
