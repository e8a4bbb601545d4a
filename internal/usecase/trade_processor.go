package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
)

// Tape backends.
const (
	TapeKafka      = "kafka"
	TapeClickHouse = "clickhouse"
)

// TradeProcessor writes trades to the configured tape backend.
type TradeProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

// NewTradeProcessor creates a processor. Only the dependency for backend is used.
func NewTradeProcessor(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string) *TradeProcessor {
	return &TradeProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single trade to the backend.
func (p *TradeProcessor) Process(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case TapeKafka:
		err = p.pub.Publish(ctx, t)
	case TapeClickHouse:
		err = p.store.Store(ctx, t)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process trade: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, t.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple trades in one backend call.
func (p *TradeProcessor) ProcessBatch(ctx context.Context, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case TapeKafka:
		err = p.pub.PublishBatch(ctx, trades)
	case TapeClickHouse:
		err = p.store.StoreBatch(ctx, trades)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, t := range trades {
		p.metrics.RecordMessageSent(p.backend, t.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}
