package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
)

var (
	// ErrTapeDisabled is returned when no tape storage is configured.
	ErrTapeDisabled = errors.New("trade tape storage not configured")
	ErrInvalidRange = errors.New("from must be <= to")
)

const (
	defaultHistoryLimit = 500
	maxHistoryLimit     = 10000
	defaultHistorySpan  = 24 * time.Hour
)

// TradeHistoryUseCase reads archived trades back from the tape.
type TradeHistoryUseCase struct {
	store drepo.Storage
	now   func() time.Time
}

// NewTradeHistoryUseCase creates the use case. store may be nil.
func NewTradeHistoryUseCase(store drepo.Storage) *TradeHistoryUseCase {
	return &TradeHistoryUseCase{store: store, now: time.Now}
}

type TradeHistoryParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type TradeHistory struct {
	Symbol string          `json:"symbol"`
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Count  int             `json:"count"`
	Trades []*models.Trade `json:"trades"`
}

// Trades returns the newest trades of p.Symbol in [From, To]. A zero To means now
// and a zero From means one day before To.
func (uc *TradeHistoryUseCase) Trades(ctx context.Context, p TradeHistoryParams) (*TradeHistory, error) {
	if uc.store == nil {
		return nil, ErrTapeDisabled
	}
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.To.IsZero() {
		p.To = uc.now().UTC()
	}
	if p.From.IsZero() {
		p.From = p.To.Add(-defaultHistorySpan)
	}
	if p.From.After(p.To) {
		return nil, ErrInvalidRange
	}
	if p.Limit <= 0 {
		p.Limit = defaultHistoryLimit
	}
	if p.Limit > maxHistoryLimit {
		p.Limit = maxHistoryLimit
	}

	trades, err := uc.store.Query(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	if trades == nil {
		trades = []*models.Trade{}
	}

	return &TradeHistory{
		Symbol: p.Symbol,
		From:   p.From,
		To:     p.To,
		Count:  len(trades),
		Trades: trades,
	}, nil
}
