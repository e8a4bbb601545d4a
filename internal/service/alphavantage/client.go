// Package alphavantage implements TechnicalData against the Alpha Vantage query API.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/metrics"
)

const maxIndicatorPoints = 100

type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	metrics drepo.Metrics
}

// New creates an Alpha Vantage client. A nil m disables metrics.
func New(apiKey, baseURL string, timeout time.Duration, m drepo.Metrics) *Client {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithUserAgent("marketpulse/1.0")),
		baseURL: baseURL,
		apiKey:  apiKey,
		metrics: m,
	}
}

var _ drepo.TechnicalData = (*Client)(nil)

func (c *Client) query(ctx context.Context, endpoint string, params map[string]string, dest interface{}) error {
	q := map[string][]string{"apikey": {c.apiKey}}
	for k, v := range params {
		q[k] = []string{v}
	}

	start := time.Now()
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: q,
	}, dest)
	c.metrics.RecordUpstream("alphavantage_"+endpoint, time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("alphavantage %s: %w", endpoint, err)
	}
	return nil
}

// Intraday returns bars oldest first. A response without the series key
// (throttle notice, unknown symbol) yields an empty slice.
func (c *Client) Intraday(ctx context.Context, symbol string, interval drepo.Interval) ([]models.IntradayPoint, error) {
	var raw map[string]json.RawMessage
	params := map[string]string{
		"function": "TIME_SERIES_INTRADAY",
		"symbol":   symbol,
		"interval": string(interval),
	}
	if err := c.query(ctx, "intraday", params, &raw); err != nil {
		return nil, err
	}

	series, err := seriesAt(raw, fmt.Sprintf("Time Series (%s)", interval))
	if err != nil {
		return nil, err
	}
	stamps := sortedKeys(series)

	out := make([]models.IntradayPoint, 0, len(stamps))
	for _, ts := range stamps {
		v := series[ts]
		out = append(out, models.IntradayPoint{
			Time:   ts,
			Open:   parseFloat(v["1. open"]),
			High:   parseFloat(v["2. high"]),
			Low:    parseFloat(v["3. low"]),
			Close:  parseFloat(v["4. close"]),
			Volume: parseInt(v["5. volume"]),
		})
	}
	return out, nil
}

// Indicator returns the most recent points, newest first.
func (c *Client) Indicator(ctx context.Context, symbol string, ind drepo.Indicator) ([]models.IndicatorPoint, error) {
	fn := strings.ToUpper(string(ind))

	var raw map[string]json.RawMessage
	params := map[string]string{
		"function":    fn,
		"symbol":      symbol,
		"interval":    "daily",
		"time_period": strconv.Itoa(ind.TimePeriod()),
		"series_type": "close",
	}
	if err := c.query(ctx, "indicator", params, &raw); err != nil {
		return nil, err
	}

	series, err := seriesAt(raw, "Technical Analysis: "+fn)
	if err != nil {
		return nil, err
	}
	dates := sortedKeys(series)
	out := make([]models.IndicatorPoint, 0, min(len(dates), maxIndicatorPoints))
	for i := len(dates) - 1; i >= 0 && len(out) < maxIndicatorPoints; i-- {
		out = append(out, models.IndicatorPoint{
			Date:  dates[i],
			Value: parseFloat(series[dates[i]][fn]),
		})
	}
	return out, nil
}

// seriesAt decodes the time-keyed object under key. Metadata and notices
// sit next to it as plain strings, so the envelope is decoded lazily.
func seriesAt(raw map[string]json.RawMessage, key string) (map[string]map[string]string, error) {
	b, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var series map[string]map[string]string
	if err := json.Unmarshal(b, &series); err != nil {
		return nil, fmt.Errorf("alphavantage %q: %w", key, err)
	}
	return series, nil
}

// sortedKeys orders timestamps ascending; Alpha Vantage keys sort lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
