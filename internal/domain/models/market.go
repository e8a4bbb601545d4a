package models

import "time"

// Quote is a normalized real-time quote.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	Timestamp     int64   `json:"timestamp"`
}

// PriceChange projects the quote onto the fields the scorer uses.
func (q Quote) PriceChange() PriceChange {
	return PriceChange{Price: q.Price, Change: q.Change, ChangePercent: q.ChangePercent}
}

// NewsArticle is a normalized market or company news item.
type NewsArticle struct {
	Headline  string     `json:"headline"`
	Source    string     `json:"source"`
	URL       string     `json:"url"`
	Thumbnail *string    `json:"thumbnail"`
	Timestamp *time.Time `json:"timestamp"`
	Summary   string     `json:"summary"`
}

// EconomicEvent is one row of the economic calendar.
type EconomicEvent struct {
	Date     string   `json:"date"`
	Event    string   `json:"event"`
	Country  string   `json:"country"`
	Impact   string   `json:"impact"`
	Actual   *float64 `json:"actual"`
	Estimate *float64 `json:"estimate"`
	Previous *float64 `json:"previous"`
	Unit     string   `json:"unit"`
}

// EarningsEvent is one row of the earnings calendar.
type EarningsEvent struct {
	Symbol          string   `json:"symbol"`
	Date            string   `json:"date"`
	Hour            string   `json:"hour"`
	Quarter         int      `json:"quarter"`
	Year            int      `json:"year"`
	EPSEstimate     *float64 `json:"epsEstimate"`
	EPSActual       *float64 `json:"epsActual"`
	RevenueEstimate *float64 `json:"revenueEstimate"`
	RevenueActual   *float64 `json:"revenueActual"`
}

// SymbolMatch is a symbol lookup result.
type SymbolMatch struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// IntradayPoint is one OHLCV bar.
type IntradayPoint struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// IndicatorPoint is one technical indicator value.
type IndicatorPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// IndicatorSeries is a technical indicator for one symbol.
type IndicatorSeries struct {
	Symbol     string           `json:"symbol"`
	Indicator  string           `json:"indicator"`
	TimePeriod int              `json:"timePeriod"`
	Data       []IndicatorPoint `json:"data"`
}

// Trade is a single executed trade from the real-time stream.
type Trade struct {
	Symbol     string   `json:"s"`
	Price      float64  `json:"p"`
	Volume     float64  `json:"v"`
	Timestamp  int64    `json:"t"` // ms
	Conditions []string `json:"c,omitempty"`
}

// TradeBatch is the frame relayed to WebSocket clients.
type TradeBatch struct {
	Type string  `json:"type"`
	Data []Trade `json:"data"`
}

// TapeRecord is the archived form of a trade on the Kafka tape topic.
type TapeRecord struct {
	Symbol     string   `json:"symbol"`
	T          int64    `json:"t"` // ms
	C          float64  `json:"c"`
	V          float64  `json:"v"`
	Conditions []string `json:"x,omitempty"`
}

// TapeRecordOf converts a trade to its tape form.
func TapeRecordOf(t *Trade) TapeRecord {
	return TapeRecord{Symbol: t.Symbol, T: t.Timestamp, C: t.Price, V: t.Volume, Conditions: t.Conditions}
}

// Trade converts the record back. Second-resolution timestamps are promoted to ms.
func (r TapeRecord) Trade() *Trade {
	ts := r.T
	if ts > 0 && ts < 1e11 {
		ts *= 1000
	}
	return &Trade{Symbol: r.Symbol, Price: r.C, Volume: r.V, Timestamp: ts, Conditions: r.Conditions}
}
