package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

const (
	earningsHorizonDays = 90
	economicLimit       = 50
	countryUS           = "US"
)

// CalendarUseCase serves earnings, economic, Fed and forex calendars.
type CalendarUseCase struct {
	data drepo.MarketData
	log  *applogger.Logger
	now  func() time.Time
}

func NewCalendarUseCase(data drepo.MarketData, log *applogger.Logger) *CalendarUseCase {
	return &CalendarUseCase{data: data, log: log.Component("calendar"), now: time.Now}
}

// Earnings lists mega-cap reports between from and to. Empty bounds default
// to today and today+90.
func (uc *CalendarUseCase) Earnings(ctx context.Context, from, to string) ([]models.EarningsRow, error) {
	today, horizon := util.DateRange(uc.now(), earningsHorizonDays)
	if from == "" {
		from = today
	}
	if to == "" {
		to = horizon
	}

	raw, err := uc.data.EarningsCalendar(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("earnings calendar: %w", err)
	}

	rows := make([]models.EarningsRow, 0, len(raw))
	for _, e := range raw {
		if !IsMegaCap(strings.ToUpper(e.Symbol)) {
			continue
		}
		session := "amc"
		if e.Hour == "bmo" {
			session = "bmo"
		}
		rows = append(rows, models.EarningsRow{
			Symbol:      e.Symbol,
			Date:        e.Date,
			EPSEstimate: epsString(e.EPSEstimate),
			EPSActual:   epsString(e.EPSActual),
			Time:        session,
			Quarter:     e.Quarter,
			Year:        e.Year,
		})
	}
	return rows, nil
}

// epsString renders an EPS figure; missing and zero figures are null.
func epsString(v *float64) *string {
	if v == nil || *v == 0 {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	return &s
}

// EconomicCalendar lists US releases ordered by date, capped at 50.
func (uc *CalendarUseCase) EconomicCalendar(ctx context.Context) ([]models.EconomicEvent, error) {
	raw, err := uc.data.EconomicCalendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("economic calendar: %w", err)
	}

	out := make([]models.EconomicEvent, 0, len(raw))
	for _, e := range raw {
		if e.Country != countryUS {
			continue
		}
		e.Actual = nonZero(e.Actual)
		e.Estimate = nonZero(e.Estimate)
		e.Previous = nonZero(e.Previous)
		out = append(out, e)
	}
	sortByDate(out, func(e models.EconomicEvent) string { return e.Date })
	if len(out) > economicLimit {
		out = out[:economicLimit]
	}
	return out, nil
}

// FedEvents merges the published schedule with Fed-related calendar releases.
// A release on a scheduled date is dropped. Upstream failure yields the schedule alone.
func (uc *CalendarUseCase) FedEvents(ctx context.Context) []models.FedEvent {
	out := append([]models.FedEvent{}, fedSchedule...)
	scheduled := make(map[string]struct{}, len(fedSchedule))
	for _, e := range fedSchedule {
		scheduled[e.Date] = struct{}{}
	}

	raw, err := uc.data.EconomicCalendar(ctx)
	if err != nil {
		uc.log.Warn("fed events: economic calendar unavailable", applogger.Error(err))
	}
	for _, e := range raw {
		name := strings.ToLower(e.Event)
		if !util.ContainsAny(name, "fed", "fomc", "interest rate", "federal") {
			continue
		}
		date := dateOnly(e.Date)
		if _, dup := scheduled[date]; dup {
			continue
		}
		kind := "speech"
		if strings.Contains(name, "rate") {
			kind = "rate_decision"
		}
		importance := "medium"
		if e.Impact == string(models.ImpactHigh) {
			importance = "high"
		}
		out = append(out, models.FedEvent{Date: date, Name: e.Event, Type: kind, Importance: importance})
	}

	sortByDate(out, func(e models.FedEvent) string { return e.Date })
	return out
}

// ForexNews lists US high-impact releases ordered by date, each tagged with a category.
func (uc *CalendarUseCase) ForexNews(ctx context.Context) ([]models.ForexEvent, error) {
	raw, err := uc.data.EconomicCalendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("forex news: %w", err)
	}

	out := make([]models.ForexEvent, 0)
	for _, e := range raw {
		if e.Country != countryUS || e.Impact != string(models.ImpactHigh) {
			continue
		}
		out = append(out, models.ForexEvent{
			Date:     e.Date,
			Event:    e.Event,
			Country:  e.Country,
			Impact:   e.Impact,
			Actual:   nonZero(e.Actual),
			Forecast: nonZero(e.Estimate),
			Previous: nonZero(e.Previous),
			Unit:     e.Unit,
			Category: forexCategory(e.Event),
		})
	}
	sortByDate(out, func(e models.ForexEvent) string { return e.Date })
	return out, nil
}

type categoryRule struct {
	category string
	keywords []string
}

// forexRules are checked in order; the first match wins.
var forexRules = []categoryRule{
	{"Employment", []string{"non-farm", "nfp", "unemployment"}},
	{"Inflation", []string{"cpi", "ppi", "inflation"}},
	{"Growth", []string{"gdp"}},
	{"Fed", []string{"fomc", "fed", "interest rate", "federal"}},
	{"Consumer", []string{"retail", "consumer", "sales"}},
	{"Housing", []string{"housing", "starts", "building"}},
	{"Employment", []string{"jobless", "claims"}},
}

func forexCategory(event string) string {
	name := strings.ToLower(event)
	for _, r := range forexRules {
		if util.ContainsAny(name, r.keywords...) {
			return r.category
		}
	}
	return "Economic"
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func dateOnly(s string) string {
	if len(s) > len(util.DateLayout) {
		return s[:len(util.DateLayout)]
	}
	return s
}

// sortByDate orders rows by their ISO date or datetime, keeping upstream order for ties.
func sortByDate[T any](rows []T, date func(T) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return date(rows[i]) < date(rows[j])
	})
}
