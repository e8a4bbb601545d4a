package usecase

import (
	"context"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"golang.org/x/sync/errgroup"
)

const (
	snapshotEarningsDays = 7
	snapshotEarningsCap  = 5
	snapshotHeadlineCap  = 20
)

type regionSource struct {
	name   string
	symbol string
}

// snapshotRegions fixes the order of MarketSnapshot.GlobalRegions.
var snapshotRegions = [4]regionSource{
	{"London (FTSE)", "EWU"},
	{"Tokyo (Nikkei)", "EWJ"},
	{"Hong Kong (HSI)", "FXI"},
	{"Frankfurt (DAX)", "EWG"},
}

// SnapshotAssembler gathers a MarketSnapshot from the market data provider.
// Every source fails independently; a failed source leaves its zero value.
type SnapshotAssembler struct {
	data drepo.MarketData
	log  *applogger.Logger
	now  func() time.Time
}

func NewSnapshotAssembler(data drepo.MarketData, log *applogger.Logger) *SnapshotAssembler {
	return &SnapshotAssembler{data: data, log: log.Component("snapshot"), now: time.Now}
}

// Assemble fetches all sources concurrently and never fails.
func (a *SnapshotAssembler) Assemble(ctx context.Context) models.MarketSnapshot {
	asOf := a.now().UTC()
	s := models.MarketSnapshot{AsOfDate: util.ISODate(asOf)}
	for i, r := range snapshotRegions {
		s.GlobalRegions[i].Name = r.name
	}

	// Sources write disjoint fields, so no lock is needed.
	var g errgroup.Group

	quote := func(symbol string, dst *models.PriceChange) {
		g.Go(func() error {
			q, err := a.data.Quote(ctx, symbol)
			if err != nil {
				a.warn("quote", err, applogger.String("symbol", symbol))
				return nil
			}
			*dst = q.PriceChange()
			return nil
		})
	}
	quote("VIX", &s.VIX)
	quote("SPY", &s.SPY)
	quote("QQQ", &s.QQQ)
	quote("GLD", &s.Gold)
	quote("USO", &s.Oil)

	for i, r := range snapshotRegions {
		g.Go(func() error {
			q, err := a.data.Quote(ctx, r.symbol)
			if err != nil {
				a.warn("quote", err, applogger.String("symbol", r.symbol))
				return nil
			}
			s.GlobalRegions[i].ChangePercent = q.ChangePercent
			return nil
		})
	}

	g.Go(func() error {
		events, err := a.data.EconomicCalendar(ctx)
		if err != nil {
			a.warn("economic_calendar", err)
			return nil
		}
		s.EconomicEventsToday = todaysEvents(events, s.AsOfDate)
		return nil
	})

	g.Go(func() error {
		from, to := util.DateRange(asOf, snapshotEarningsDays)
		rows, err := a.data.EarningsCalendar(ctx, from, to)
		if err != nil {
			a.warn("earnings_calendar", err)
			return nil
		}
		s.UpcomingEarnings = megaCapEarnings(rows)
		return nil
	})

	g.Go(func() error {
		news, err := a.data.MarketNews(ctx, newsCategory)
		if err != nil {
			a.warn("market_news", err)
			return nil
		}
		s.RecentHeadlines = headlines(news)
		return nil
	})

	_ = g.Wait()

	if s.EconomicEventsToday == nil {
		s.EconomicEventsToday = []models.CalendarEvent{}
	}
	if s.UpcomingEarnings == nil {
		s.UpcomingEarnings = []models.EarningsEntry{}
	}
	if s.RecentHeadlines == nil {
		s.RecentHeadlines = []models.Headline{}
	}
	return s
}

func (a *SnapshotAssembler) warn(source string, err error, fields ...applogger.Field) {
	fields = append(fields, applogger.String("source", source), applogger.Error(err))
	a.log.Warn("snapshot source unavailable, using default", fields...)
}

// todaysEvents keeps US releases dated asOf at every impact level.
func todaysEvents(events []models.EconomicEvent, asOf string) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0)
	for _, e := range events {
		if e.Country != countryUS || dateOnly(e.Date) != asOf {
			continue
		}
		out = append(out, models.CalendarEvent{Name: e.Event, Impact: normalizeImpact(e.Impact)})
	}
	return out
}

func normalizeImpact(s string) models.Impact {
	switch models.Impact(strings.ToLower(s)) {
	case models.ImpactHigh:
		return models.ImpactHigh
	case models.ImpactMedium:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

func megaCapEarnings(rows []models.EarningsEvent) []models.EarningsEntry {
	out := make([]models.EarningsEntry, 0, snapshotEarningsCap)
	for _, r := range rows {
		if len(out) == snapshotEarningsCap {
			break
		}
		if !IsMegaCap(strings.ToUpper(r.Symbol)) {
			continue
		}
		out = append(out, models.EarningsEntry{Symbol: r.Symbol, Date: r.Date})
	}
	return out
}

func headlines(news []models.NewsArticle) []models.Headline {
	n := min(len(news), snapshotHeadlineCap)
	out := make([]models.Headline, 0, n)
	for _, a := range news[:n] {
		out = append(out, models.Headline{Text: a.Headline + " " + a.Summary})
	}
	return out
}
