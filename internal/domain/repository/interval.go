package repository

import "strings"

// Interval is an intraday bar resolution.
type Interval string

const (
	Interval1m  Interval = "1min"
	Interval5m  Interval = "5min"
	Interval15m Interval = "15min"
	Interval30m Interval = "30min"
	Interval60m Interval = "60min"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1m, Interval5m, Interval15m, Interval30m, Interval60m:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return Interval5m }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Indicator is a supported technical indicator.
type Indicator string

const (
	IndicatorSMA Indicator = "sma"
	IndicatorEMA Indicator = "ema"
	IndicatorRSI Indicator = "rsi"
)

// ParseIndicator lowercases s and reports whether it names a supported indicator.
func ParseIndicator(s string) (Indicator, bool) {
	ind := Indicator(strings.ToLower(s))
	switch ind {
	case IndicatorSMA, IndicatorEMA, IndicatorRSI:
		return ind, true
	default:
		return "", false
	}
}

// TimePeriod is the lookback used for the indicator.
func (i Indicator) TimePeriod() int {
	if i == IndicatorRSI {
		return 14
	}
	return 20
}
