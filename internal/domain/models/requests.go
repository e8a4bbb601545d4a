package models

// Requests for the market HTTP endpoints.

type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"required,max=64"`
}

type EarningsRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

type IntradayRequest struct {
	Symbol   string `param:"symbol" validate:"required,max=32"`
	Interval string `query:"interval" default:"5min" validate:"oneof=1min 5min 15min 30min 60min"`
}

type IndicatorRequest struct {
	Symbol    string `param:"symbol" validate:"required,max=32"`
	Indicator string `query:"indicator" validate:"required,oneof=sma ema rsi SMA EMA RSI"`
}

type TradesRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" default:"500" validate:"gte=1,lte=10000"`
}
