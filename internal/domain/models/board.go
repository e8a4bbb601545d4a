package models

// Instrument is a catalog entry quoted on a board.
type Instrument struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Unit    string `json:"unit,omitempty"`
	Futures bool   `json:"futures,omitempty"`
}

// BoardRow is one instrument with its latest quote. Error marks a failed fetch.
type BoardRow struct {
	Instrument
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	Error         bool     `json:"error,omitempty"`
}

// FuturesQuote is a futures quote, possibly resolved through a variant or ETF proxy.
type FuturesQuote struct {
	Quote
	ResolvedSymbol string `json:"resolvedSymbol,omitempty"`
	Proxy          string `json:"proxy,omitempty"`
	Note           string `json:"note,omitempty"`
}

// MarketMovers holds the day's top gainers and losers.
type MarketMovers struct {
	Gainers []Quote `json:"gainers"`
	Losers  []Quote `json:"losers"`
}

// FearGreed is a VIX-bucketed sentiment reading.
type FearGreed struct {
	VIX            PriceChange `json:"vix"`
	Sentiment      string      `json:"sentiment"`
	SentimentScore int         `json:"sentimentScore"`
	SPYDirection   string      `json:"spyDirection"`
	Description    string      `json:"description"`
}

// FedEvent is a scheduled Federal Reserve event.
type FedEvent struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Importance string `json:"importance"`
}

// ForexEvent is a high-impact US release tagged with a category.
type ForexEvent struct {
	Date     string   `json:"date"`
	Event    string   `json:"event"`
	Country  string   `json:"country"`
	Impact   string   `json:"impact"`
	Actual   *float64 `json:"actual"`
	Forecast *float64 `json:"forecast"`
	Previous *float64 `json:"previous"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
}

// EarningsRow is a mega-cap earnings calendar row.
type EarningsRow struct {
	Symbol      string  `json:"symbol"`
	Date        string  `json:"date"`
	EPSEstimate *string `json:"epsEstimate"`
	EPSActual   *string `json:"epsActual"`
	Time        string  `json:"time"`
	Quarter     int     `json:"quarter"`
	Year        int     `json:"year"`
}
