package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// TapeHandler drains tape records from Kafka into storage.
type TapeHandler struct {
	topic   string
	storage drepo.Storage
	metrics drepo.Metrics
}

func NewTapeHandler(topic string, storage drepo.Storage, metrics drepo.Metrics) *TapeHandler {
	return &TapeHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *TapeHandler) Topic() string { return h.topic }

// Handle stores one tape record. Undecodable payloads are returned as errors
// so the consumer can route them to the DLQ.
func (h *TapeHandler) Handle(ctx context.Context, b []byte) error {
	var rec models.TapeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		h.metrics.RecordError("tape_unmarshal")
		return fmt.Errorf("decode tape record: %w", err)
	}
	if rec.Symbol == "" {
		h.metrics.RecordError("tape_unmarshal")
		return fmt.Errorf("decode tape record: symbol empty")
	}

	t := rec.Trade()
	h.metrics.RecordLatency("tape_e2e", time.Since(time.UnixMilli(t.Timestamp)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, t)
	h.metrics.RecordLatency("tape_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("tape_store")
		return fmt.Errorf("store tape record: %w", err)
	}
	h.metrics.RecordMessageSent(TapeClickHouse, t.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*TapeHandler)(nil)
