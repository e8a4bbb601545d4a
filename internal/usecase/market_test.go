package usecase

import (
	"context"
	"fmt"
	"testing"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarket(data *stubData) *MarketUseCase {
	return NewMarketUseCase(data, applogger.Nop())
}

func TestFuturesResolvesVariant(t *testing.T) {
	data := &stubData{quotes: map[string]models.Quote{
		"ES":     {Price: 0},
		"CME:ES": {Price: 5012.25, ChangePercent: 0.4},
	}}

	q, err := newMarket(data).Futures(context.Background(), "ES=F")
	require.NoError(t, err)
	assert.Equal(t, "ES=F", q.Symbol)
	assert.Equal(t, "CME:ES", q.ResolvedSymbol)
	assert.Equal(t, 5012.25, q.Price)
	assert.Empty(t, q.Proxy)
}

func TestFuturesFallsBackToProxy(t *testing.T) {
	data := &stubData{quotes: map[string]models.Quote{
		"QQQ": {Price: 480, ChangePercent: -0.3},
	}}

	q, err := newMarket(data).Futures(context.Background(), "MNQ=F")
	require.NoError(t, err)
	assert.Equal(t, "MNQ=F", q.Symbol)
	assert.Equal(t, "QQQ", q.Proxy)
	assert.Equal(t, "Using QQQ ETF as proxy (free tier limitation)", q.Note)
	assert.Equal(t, 480.0, q.Price)
	assert.Equal(t, []string{"quote:MNQ=F", "quote:MNQ", "quote:CME:MNQ", "quote:QQQ"}, data.calls)
}

func TestFuturesNoData(t *testing.T) {
	_, err := newMarket(&stubData{}).Futures(context.Background(), "CL=F")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMarketStatus(t *testing.T) {
	tests := []struct {
		name   string
		status map[string]any
		want   string
	}{
		{"open", map[string]any{"isOpen": true, "session": "regular"}, "open"},
		{"closed", map[string]any{"isOpen": false}, "closed"},
		{"missing flag", map[string]any{}, "closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newMarket(&stubData{status: tt.status}).MarketStatus(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out["status"])
			for k, v := range tt.status {
				assert.Equal(t, v, out[k])
			}
		})
	}
}

func TestSearchCapsResults(t *testing.T) {
	data := &stubData{}
	for i := range 15 {
		data.search = append(data.search, models.SymbolMatch{Symbol: fmt.Sprintf("S%d", i)})
	}
	res, err := newMarket(data).Search(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, res, 10)

	res, err = newMarket(&stubData{}).Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestBoardMarksFailedRows(t *testing.T) {
	data := &stubData{quotes: map[string]models.Quote{
		"GLD": {Price: 190.5, Change: 1.2, ChangePercent: 0.63, High: 191, Low: 189},
		"SLV": {Price: 22.1, Change: -0.1, ChangePercent: -0.45, High: 22.5, Low: 21.9},
	}}

	rows := newMarket(data).Board(context.Background(), CommodityBoard, false)
	require.Len(t, rows, len(CommodityBoard))

	for i, row := range rows {
		assert.Equal(t, CommodityBoard[i].Symbol, row.Symbol)
		assert.Nil(t, row.High)
	}
	assert.False(t, rows[0].Error)
	assert.Equal(t, 190.5, *rows[0].Price)
	assert.True(t, rows[1].Error)
	assert.Nil(t, rows[1].Price)
	assert.True(t, rows[2].Error)
	assert.Equal(t, -0.45, *rows[3].ChangePercent)

	withRange := newMarket(data).Board(context.Background(), CommodityBoard, true)
	assert.Equal(t, 191.0, *withRange[0].High)
	assert.Equal(t, 189.0, *withRange[0].Low)
}

func TestRankMovers(t *testing.T) {
	var quotes []models.Quote
	for i, pct := range []float64{1.5, -2.0, 3.2, 0.1, -0.4, 5.0, -3.3} {
		quotes = append(quotes, models.Quote{Symbol: fmt.Sprintf("S%d", i), Price: 10, ChangePercent: pct})
	}

	m := rankMovers(quotes)
	pcts := func(qs []models.Quote) []float64 {
		out := make([]float64, len(qs))
		for i, q := range qs {
			out[i] = q.ChangePercent
		}
		return out
	}
	assert.Equal(t, []float64{5.0, 3.2, 1.5, 0.1, -0.4}, pcts(m.Gainers))
	assert.Equal(t, []float64{-3.3, -2.0, -0.4, 0.1, 1.5}, pcts(m.Losers))
}

func TestMoversSkipsInvalidQuotes(t *testing.T) {
	data := &stubData{quotes: map[string]models.Quote{
		"AAPL": {Price: 190, ChangePercent: 1.1},
		"MSFT": {Price: 0, ChangePercent: 9.9},
		"NVDA": {Price: 900, ChangePercent: -2.4},
	}}

	m := newMarket(data).Movers(context.Background())
	require.Len(t, m.Gainers, 2)
	assert.Equal(t, "AAPL", m.Gainers[0].Symbol)
	assert.Equal(t, "NVDA", m.Gainers[1].Symbol)
	require.Len(t, m.Losers, 2)
	assert.Equal(t, "NVDA", m.Losers[0].Symbol)
}

func TestFearGreedBands(t *testing.T) {
	tests := []struct {
		vix       float64
		spyPct    float64
		sentiment string
		score     int
		direction string
	}{
		{11.9, 0.5, "Extreme Greed", 95, "Bullish"},
		{12, 0, "Greed", 75, "Bullish"},
		{16.99, -0.1, "Greed", 75, "Bearish"},
		{17, 1, "Neutral", 50, "Bullish"},
		{22, -1, "Fear", 25, "Bearish"},
		{30, -2, "Extreme Fear", 5, "Bearish"},
	}
	for _, tt := range tests {
		t.Run(tt.sentiment, func(t *testing.T) {
			fg := fearGreed(models.Quote{Price: tt.vix}, models.Quote{ChangePercent: tt.spyPct})
			assert.Equal(t, tt.sentiment, fg.Sentiment)
			assert.Equal(t, tt.score, fg.SentimentScore)
			assert.Equal(t, tt.direction, fg.SPYDirection)
			assert.NotEmpty(t, fg.Description)
			assert.Equal(t, tt.vix, fg.VIX.Price)
		})
	}
}

func TestFearGreedMissingQuotes(t *testing.T) {
	fg := newMarket(&stubData{}).FearGreed(context.Background())
	assert.Equal(t, "Extreme Greed", fg.Sentiment)
	assert.Equal(t, "Bullish", fg.SPYDirection)
}
