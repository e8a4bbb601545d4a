package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when no variant or proxy yields a usable quote.
var ErrNoData = errors.New("no data available")

const (
	searchLimit    = 10
	moversPerSide  = 5
	boardFanOut    = 8
	futuresSuffix  = "=F"
	futuresVenue   = "CME:"
	proxyNoteTempl = "Using %s ETF as proxy (free tier limitation)"
)

// MarketUseCase serves quotes, boards and sentiment derived from them.
type MarketUseCase struct {
	data drepo.MarketData
	log  *applogger.Logger
}

func NewMarketUseCase(data drepo.MarketData, log *applogger.Logger) *MarketUseCase {
	return &MarketUseCase{data: data, log: log.Component("market")}
}

func (uc *MarketUseCase) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	q, err := uc.data.Quote(ctx, symbol)
	if err != nil {
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	return q, nil
}

func (uc *MarketUseCase) Profile(ctx context.Context, symbol string) (map[string]any, error) {
	p, err := uc.data.CompanyProfile(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", symbol, err)
	}
	return p, nil
}

// Futures resolves a futures quote by trying symbol variants, then the ETF proxy.
func (uc *MarketUseCase) Futures(ctx context.Context, symbol string) (models.FuturesQuote, error) {
	root := strings.Replace(symbol, futuresSuffix, "", 1)
	for _, variant := range []string{symbol, root, futuresVenue + root} {
		q, err := uc.data.Quote(ctx, variant)
		if err != nil {
			uc.log.Debug("futures variant failed", applogger.String("symbol", variant), applogger.Error(err))
			continue
		}
		if q.Price > 0 {
			q.Symbol = symbol
			return models.FuturesQuote{Quote: q, ResolvedSymbol: variant}, nil
		}
	}

	proxy, ok := futuresProxies[symbol]
	if !ok {
		return models.FuturesQuote{}, ErrNoData
	}
	q, err := uc.data.Quote(ctx, proxy)
	if err != nil {
		return models.FuturesQuote{}, fmt.Errorf("futures proxy %s: %w", proxy, err)
	}
	q.Symbol = symbol
	return models.FuturesQuote{
		Quote: q,
		Proxy: proxy,
		Note:  fmt.Sprintf(proxyNoteTempl, proxy),
	}, nil
}

// MarketStatus returns the upstream US status with a derived open/closed flag.
func (uc *MarketUseCase) MarketStatus(ctx context.Context) (map[string]any, error) {
	raw, err := uc.data.MarketStatus(ctx, "US")
	if err != nil {
		return nil, fmt.Errorf("market status: %w", err)
	}
	out := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	if open, _ := raw["isOpen"].(bool); open {
		out["status"] = "open"
	} else {
		out["status"] = "closed"
	}
	return out, nil
}

func (uc *MarketUseCase) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	res, err := uc.data.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if res == nil {
		res = []models.SymbolMatch{}
	}
	if len(res) > searchLimit {
		res = res[:searchLimit]
	}
	return res, nil
}

// Board quotes every instrument concurrently. A failed quote marks its row
// with Error instead of failing the board. withRange adds the day high/low.
func (uc *MarketUseCase) Board(ctx context.Context, instruments []models.Instrument, withRange bool) []models.BoardRow {
	rows := make([]models.BoardRow, len(instruments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(boardFanOut)

	for i, inst := range instruments {
		g.Go(func() error {
			row := models.BoardRow{Instrument: inst}
			q, err := uc.data.Quote(gctx, inst.Symbol)
			if err != nil {
				uc.log.Warn("board quote failed", applogger.String("symbol", inst.Symbol), applogger.Error(err))
				row.Error = true
				rows[i] = row
				return nil
			}
			row.Price = ptr(q.Price)
			row.Change = ptr(q.Change)
			row.ChangePercent = ptr(q.ChangePercent)
			if withRange {
				row.High = ptr(q.High)
				row.Low = ptr(q.Low)
			}
			rows[i] = row
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

// Movers ranks the mover universe by percent change. Symbols without a
// positive price are left out.
func (uc *MarketUseCase) Movers(ctx context.Context) models.MarketMovers {
	quotes := make([]*models.Quote, len(MoverUniverse))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(boardFanOut)

	for i, sym := range MoverUniverse {
		g.Go(func() error {
			q, err := uc.data.Quote(gctx, sym)
			if err != nil || q.Price <= 0 {
				return nil
			}
			quotes[i] = &q
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q != nil {
			valid = append(valid, *q)
		}
	}
	return rankMovers(valid)
}

func rankMovers(valid []models.Quote) models.MarketMovers {
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].ChangePercent > valid[j].ChangePercent
	})

	gainers := append([]models.Quote{}, valid[:min(moversPerSide, len(valid))]...)

	losers := append([]models.Quote{}, valid[max(0, len(valid)-moversPerSide):]...)
	for i, j := 0, len(losers)-1; i < j; i, j = i+1, j-1 {
		losers[i], losers[j] = losers[j], losers[i]
	}
	return models.MarketMovers{Gainers: gainers, Losers: losers}
}

type sentimentBand struct {
	below       float64
	label       string
	score       int
	description string
}

var sentimentBands = []sentimentBand{
	{12, "Extreme Greed", 95, "Market showing signs of extreme euphoria. Consider taking profits."},
	{17, "Greed", 75, "Strong market confidence. Positive momentum visible."},
	{22, "Neutral", 50, "Market in balance. No clear directional bias."},
	{30, "Fear", 25, "Market volatility elevated. Investors showing caution."},
}

var extremeFear = sentimentBand{label: "Extreme Fear", score: 5, description: "Market in extreme panic. Potential buying opportunity for long-term investors."}

// FearGreed buckets the VIX level into a sentiment reading. Missing quotes count as zero.
func (uc *MarketUseCase) FearGreed(ctx context.Context) models.FearGreed {
	var vix, spy models.Quote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := uc.data.Quote(gctx, "VIX")
		if err != nil {
			uc.log.Warn("fear-greed vix quote failed", applogger.Error(err))
			return nil
		}
		vix = q
		return nil
	})
	g.Go(func() error {
		q, err := uc.data.Quote(gctx, "SPY")
		if err != nil {
			uc.log.Warn("fear-greed spy quote failed", applogger.Error(err))
			return nil
		}
		spy = q
		return nil
	})
	_ = g.Wait()

	return fearGreed(vix, spy)
}

func fearGreed(vix, spy models.Quote) models.FearGreed {
	band := extremeFear
	for _, b := range sentimentBands {
		if vix.Price < b.below {
			band = b
			break
		}
	}
	direction := "Bullish"
	if spy.ChangePercent < 0 {
		direction = "Bearish"
	}
	return models.FearGreed{
		VIX:            vix.PriceChange(),
		Sentiment:      band.label,
		SentimentScore: band.score,
		SPYDirection:   direction,
		Description:    band.description,
	}
}

func ptr[T any](v T) *T { return &v }
