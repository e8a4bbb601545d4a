package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
)

// Proc is the downstream the pipeline feeds.
type Proc interface {
	Process(ctx context.Context, t *models.Trade) error
	ProcessBatch(ctx context.Context, trades []*models.Trade) error
}

// RealtimePipeline sits between the relay and the tape backend.
// It validates and throttles trades per symbol, and buffers them while downstream is failing.
type RealtimePipeline struct {
	proc      Proc
	metrics   domrepo.Metrics
	maxRPS    int
	bufSize   int
	batchSize int
	bufCh     chan *models.Trade
	stopCh    chan struct{}
	started   bool
	mu        sync.Mutex
	lastSeen  map[string]time.Time // per-symbol last accepted time
	now       func() time.Time
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS sets the max trades per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithFlushBatch sets how many buffered trades are retried per downstream call.
func WithFlushBatch(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// NewRealtimePipeline creates a new pipeline.
func NewRealtimePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		proc:      proc,
		metrics:   metrics,
		maxRPS:    20,
		bufSize:   1000,
		batchSize: 100,
		lastSeen:  make(map[string]time.Time),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Trade, p.bufSize)
	return p
}

// Start launches background flushing of buffered trades.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.stopCh = make(chan struct{})
	stop := p.stopCh
	p.mu.Unlock()

	go p.flushLoop(ctx, stop)
}

func (p *RealtimePipeline) flushLoop(ctx context.Context, stop <-chan struct{}) {
	const minBackoff = 50 * time.Millisecond
	backoff := minBackoff
	for {
		var first *models.Trade
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case first = <-p.bufCh:
		}

		batch := p.drain(first)
		if err := p.proc.ProcessBatch(ctx, batch); err != nil {
			p.metrics.RecordError("pipeline_flush")
			// requeue what fits; the rest is dropped
			for _, t := range batch {
				select {
				case p.bufCh <- t:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
			}
			if backoff < 2*time.Second {
				backoff *= 2
			}
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = minBackoff
	}
}

// drain collects first plus whatever is already buffered, up to batchSize.
func (p *RealtimePipeline) drain(first *models.Trade) []*models.Trade {
	batch := make([]*models.Trade, 0, p.batchSize)
	batch = append(batch, first)
	for len(batch) < p.batchSize {
		select {
		case t := <-p.bufCh:
			batch = append(batch, t)
		default:
			return batch
		}
	}
	return batch
}

// Stop stops the background flushing.
func (p *RealtimePipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}

// Buffered returns the number of trades waiting for a retry.
func (p *RealtimePipeline) Buffered() int { return len(p.bufCh) }

// Process validates, throttles, and forwards trade to downstream, buffering on errors.
// Throttled trades are dropped without error.
func (p *RealtimePipeline) Process(ctx context.Context, t *models.Trade) error {
	start := p.now()
	if err := validateTrade(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(t.Symbol, start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- t:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTrade(t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}

// allow admits at most maxRPS trades per second per symbol.
func (p *RealtimePipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last, ok := p.lastSeen[symbol]
	if ok && now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
