package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Signal is the five-level label derived from a briefing score.
type Signal string

const (
	SignalStrongBull Signal = "Strong Bull"
	SignalBull       Signal = "Bull"
	SignalNeutral    Signal = "Neutral"
	SignalBear       Signal = "Bear"
	SignalStrongBear Signal = "Strong Bear"
)

// Impact is the expected market impact of an economic release.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// PriceChange is a single instrument observation used by the scorer.
type PriceChange struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// RegionChange is the daily move of one overseas market.
type RegionChange struct {
	Name          string  `json:"name" validate:"required"`
	ChangePercent float64 `json:"changePercent"`
}

// Regions holds London, Tokyo, Hong Kong and Frankfurt in that order.
type Regions [4]RegionChange

// UnmarshalJSON rejects any list that is not exactly four regions long.
func (r *Regions) UnmarshalJSON(b []byte) error {
	var list []RegionChange
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	if len(list) != len(r) {
		return fmt.Errorf("globalRegions must have exactly %d entries, got %d", len(r), len(list))
	}
	copy(r[:], list)
	return nil
}

// CalendarEvent is an economic release scheduled for the snapshot date.
type CalendarEvent struct {
	Name   string `json:"name" validate:"required"`
	Impact Impact `json:"impact" validate:"required,oneof=low medium high"`
}

// EarningsEntry is an upcoming mega-cap report.
type EarningsEntry struct {
	Symbol string `json:"symbol" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Headline is headline and summary text joined for keyword scanning.
type Headline struct {
	Text string `json:"text"`
}

// MarketSnapshot is the complete input of one scoring pass.
// Zero values stand in for anything the assembler could not fetch.
type MarketSnapshot struct {
	VIX                 PriceChange     `json:"vix"`
	SPY                 PriceChange     `json:"spy"`
	QQQ                 PriceChange     `json:"qqq"`
	Gold                PriceChange     `json:"gold"`
	Oil                 PriceChange     `json:"oil"`
	GlobalRegions       Regions         `json:"globalRegions" validate:"dive"`
	EconomicEventsToday []CalendarEvent `json:"economicEventsToday" validate:"max=100,dive"`
	UpcomingEarnings    []EarningsEntry `json:"upcomingEarnings" validate:"max=5,dive"`
	RecentHeadlines     []Headline      `json:"recentHeadlines" validate:"max=20"`
	AsOfDate            string          `json:"asOfDate" validate:"required,datetime=2006-01-02"`
}

// Factor is one scored contributor to a briefing.
type Factor struct {
	Name   string `json:"factor"`
	Detail string `json:"detail"`
	Points int    `json:"points"`
}

// BriefingResult is the output of one scoring pass.
type BriefingResult struct {
	Score       int       `json:"score"`
	Signal      Signal    `json:"signal"`
	Factors     []Factor  `json:"factors"`
	Narrative   []string  `json:"-"`
	GeneratedAt time.Time `json:"timestamp"`
}

// Briefing joins the narrative sentences into one paragraph.
func (r BriefingResult) Briefing() string {
	return strings.Join(r.Narrative, " ")
}

// Move is a percent-only change, used for gold, oil and the overseas regions.
type Move struct {
	Price         float64 `json:"price,omitempty"`
	ChangePercent float64 `json:"changePercent"`
}

// GlobalMoves is the per-region breakdown echoed in a briefing.
type GlobalMoves struct {
	London    Move `json:"london"`
	Tokyo     Move `json:"tokyo"`
	HongKong  Move `json:"hongkong"`
	Frankfurt Move `json:"frankfurt"`
}

// BriefingEvent is a high-impact release echoed in a briefing.
type BriefingEvent struct {
	Event  string `json:"event"`
	Impact Impact `json:"impact"`
}

// BriefingData echoes the inputs a briefing was computed from.
type BriefingData struct {
	VIX              PriceChange     `json:"vix"`
	SPY              PriceChange     `json:"spy"`
	QQQ              PriceChange     `json:"qqq"`
	Gold             Move            `json:"gold"`
	Oil              Move            `json:"oil"`
	Global           GlobalMoves     `json:"global"`
	TodaysEvents     []BriefingEvent `json:"todaysEvents"`
	UpcomingEarnings []EarningsEntry `json:"upcomingEarnings"`
}

// BriefingResponse is the daily briefing as served over HTTP.
type BriefingResponse struct {
	Score     int          `json:"score"`
	Signal    Signal       `json:"signal"`
	Briefing  string       `json:"briefing"`
	Factors   []Factor     `json:"factors"`
	Timestamp time.Time    `json:"timestamp"`
	Data      BriefingData `json:"data"`
}

// NewBriefingResponse combines a result with the snapshot it was computed from.
func NewBriefingResponse(s MarketSnapshot, r BriefingResult) BriefingResponse {
	events := make([]BriefingEvent, 0, len(s.EconomicEventsToday))
	for _, e := range s.EconomicEventsToday {
		if e.Impact == ImpactHigh {
			events = append(events, BriefingEvent{Event: e.Name, Impact: e.Impact})
		}
	}
	earnings := s.UpcomingEarnings
	if earnings == nil {
		earnings = []EarningsEntry{}
	}
	factors := r.Factors
	if factors == nil {
		factors = []Factor{}
	}
	g := s.GlobalRegions
	return BriefingResponse{
		Score:     r.Score,
		Signal:    r.Signal,
		Briefing:  r.Briefing(),
		Factors:   factors,
		Timestamp: r.GeneratedAt,
		Data: BriefingData{
			VIX:  s.VIX,
			SPY:  s.SPY,
			QQQ:  s.QQQ,
			Gold: Move{Price: s.Gold.Price, ChangePercent: s.Gold.ChangePercent},
			Oil:  Move{Price: s.Oil.Price, ChangePercent: s.Oil.ChangePercent},
			Global: GlobalMoves{
				London:    Move{ChangePercent: g[0].ChangePercent},
				Tokyo:     Move{ChangePercent: g[1].ChangePercent},
				HongKong:  Move{ChangePercent: g[2].ChangePercent},
				Frankfurt: Move{ChangePercent: g[3].ChangePercent},
			},
			TodaysEvents:     events,
			UpcomingEarnings: earnings,
		},
	}
}
