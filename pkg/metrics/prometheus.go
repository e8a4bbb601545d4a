package metrics

import (
	"MarketPulse/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketpulse"

var signals = []models.Signal{
	models.SignalStrongBull,
	models.SignalBull,
	models.SignalNeutral,
	models.SignalBear,
	models.SignalStrongBear,
}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	briefingScore   prometheus.Gauge
	briefingSignal  *prometheus.GaugeVec
	briefingsTotal  prometheus.Counter
	relayClients    prometheus.Gauge
	relaySubs       prometheus.Gauge
	tradesRelayed   prometheus.Counter
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tape_messages_total",
				Help:      "Trades written to a tape backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_trade_price",
				Help:      "Last relayed trade price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of data provider requests",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		upstreamErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_errors_total",
				Help:      "Failed data provider requests",
			},
			[]string{"endpoint"},
		),
		briefingScore: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "briefing_score",
			Help:      "Score of the most recent daily briefing",
		}),
		briefingSignal: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "briefing_signal",
				Help:      "1 for the signal of the most recent briefing, 0 otherwise",
			},
			[]string{"signal"},
		),
		briefingsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "briefings_total",
			Help:      "Briefings computed",
		}),
		relayClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_clients",
			Help:      "Connected websocket relay clients",
		}),
		relaySubs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_subscriptions",
			Help:      "Symbols subscribed upstream",
		}),
		tradesRelayed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_trades_total",
			Help:      "Trades broadcast to relay clients",
		}),
	}
}

// RecordMessageSent records a message sent to a backend.
func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.messagesSent.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordUpstream(endpoint string, seconds float64, err error) {
	r.upstreamLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		r.upstreamErrors.WithLabelValues(endpoint).Inc()
	}
}

func (r *Recorder) RecordBriefing(score int, signal models.Signal) {
	r.briefingsTotal.Inc()
	r.briefingScore.Set(float64(score))
	for _, s := range signals {
		v := 0.0
		if s == signal {
			v = 1
		}
		r.briefingSignal.WithLabelValues(string(s)).Set(v)
	}
}

func (r *Recorder) SetRelayClients(n int) { r.relayClients.Set(float64(n)) }

func (r *Recorder) SetRelaySubscriptions(n int) { r.relaySubs.Set(float64(n)) }

func (r *Recorder) RecordTradesRelayed(n int) { r.tradesRelayed.Add(float64(n)) }

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordMessageSent(string, string)      {}
func (Nop) RecordError(string)                    {}
func (Nop) RecordLastPrice(string, float64)       {}
func (Nop) RecordLatency(string, float64)         {}
func (Nop) RecordUpstream(string, float64, error) {}
func (Nop) RecordBriefing(int, models.Signal)     {}
func (Nop) SetRelayClients(int)                   {}
func (Nop) SetRelaySubscriptions(int)             {}
func (Nop) RecordTradesRelayed(int)               {}
