package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// RelayStream is the upstream feed the relay multiplexes. It owns the
// subscription set and replays it on every Connect.
type RelayStream interface {
	drepo.TradeStream
	Symbols() []string
	ClearSubscriptions()
}

// RelayClient is one downstream subscriber. Send must not block; it reports
// false when the client cannot keep up.
type RelayClient interface {
	Send(frame []byte) bool
	Close()
}

// TapeSink archives relayed trades.
type TapeSink interface {
	Process(ctx context.Context, t *models.Trade) error
}

// TradeRelay fans one upstream trade stream out to every connected client.
// The upstream connection opens with the first client and closes with the last.
type TradeRelay struct {
	stream         RelayStream
	tape           TapeSink
	metrics        drepo.Metrics
	log            *applogger.Logger
	reconnectDelay time.Duration

	life    sync.Mutex // serializes upstream open/close with subscription changes
	mu      sync.Mutex
	parent  context.Context
	clients map[RelayClient]struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTradeRelay creates a relay. tape may be nil.
func NewTradeRelay(stream RelayStream, tape TapeSink, metrics drepo.Metrics, log *applogger.Logger, reconnectDelay time.Duration) *TradeRelay {
	return &TradeRelay{
		stream:         stream,
		tape:           tape,
		metrics:        metrics,
		log:            log.Component("relay"),
		reconnectDelay: reconnectDelay,
		parent:         context.Background(),
		clients:        make(map[RelayClient]struct{}),
	}
}

// Start binds the relay to the application lifetime.
func (r *TradeRelay) Start(ctx context.Context) {
	r.mu.Lock()
	r.parent = ctx
	r.mu.Unlock()

	if p, ok := r.tape.(interface{ Start(context.Context) }); ok {
		p.Start(ctx)
	}
}

// Join registers a client, opening the upstream for the first one.
func (r *TradeRelay) Join(c RelayClient) {
	r.life.Lock()
	defer r.life.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[c] = struct{}{}
	r.metrics.SetRelayClients(len(r.clients))
	r.log.Debug("client joined", applogger.Int("clients", len(r.clients)))

	if r.cancel == nil {
		ctx, cancel := context.WithCancel(r.parent)
		r.cancel = cancel
		r.done = make(chan struct{})
		go r.run(ctx, r.done)
	}
}

// Leave removes a client. When none remain the upstream closes and the
// symbol set is cleared.
func (r *TradeRelay) Leave(c RelayClient) {
	r.life.Lock()
	defer r.life.Unlock()
	r.mu.Lock()
	if _, ok := r.clients[c]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.clients, c)
	n := len(r.clients)
	r.metrics.SetRelayClients(n)

	var done chan struct{}
	if n == 0 && r.cancel != nil {
		r.cancel()
		r.cancel = nil
		done = r.done
	}
	r.mu.Unlock()

	if done == nil {
		return
	}
	<-done
	_ = r.stream.Close()
	r.stream.ClearSubscriptions()
	r.metrics.SetRelaySubscriptions(0)
	r.log.Info("last client left, upstream closed")
}

func (r *TradeRelay) Subscribe(symbol string) error {
	r.life.Lock()
	defer r.life.Unlock()
	err := r.stream.Subscribe(symbol)
	r.metrics.SetRelaySubscriptions(len(r.stream.Symbols()))
	return err
}

func (r *TradeRelay) Unsubscribe(symbol string) error {
	r.life.Lock()
	defer r.life.Unlock()
	err := r.stream.Unsubscribe(symbol)
	r.metrics.SetRelaySubscriptions(len(r.stream.Symbols()))
	return err
}

// Clients returns the number of connected clients.
func (r *TradeRelay) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// IsConnected reports whether the upstream is live.
func (r *TradeRelay) IsConnected() bool { return r.stream.IsConnected() }

// Shutdown drops every client and closes the upstream.
func (r *TradeRelay) Shutdown() {
	r.mu.Lock()
	clients := make([]RelayClient, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	for _, c := range clients {
		c.Close()
		r.Leave(c)
	}
	if p, ok := r.tape.(interface{ Stop() }); ok {
		p.Stop()
	}
}

// run keeps the upstream connected until ctx ends, waiting reconnectDelay
// between attempts.
func (r *TradeRelay) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		if err := r.stream.Connect(ctx); err != nil {
			r.metrics.RecordError("stream_connect")
			r.log.Warn("upstream connect failed", applogger.Error(err))
		} else {
			r.consume(ctx)
		}

		if ctx.Err() != nil {
			return
		}
		r.log.Info("reconnecting upstream", applogger.Duration("delay", r.reconnectDelay))
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.reconnectDelay):
		}
	}
}

func (r *TradeRelay) consume(ctx context.Context) {
	batches, errs := r.stream.Read(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-batches:
			if !ok {
				if err := <-errs; err != nil {
					r.metrics.RecordError("stream")
					r.log.Warn("upstream disconnected", applogger.Error(err))
				}
				return
			}
			r.broadcast(ctx, b)
		}
	}
}

func (r *TradeRelay) broadcast(ctx context.Context, trades []models.Trade) {
	frame, err := json.Marshal(models.TradeBatch{Type: "trade", Data: trades})
	if err != nil {
		r.metrics.RecordError("relay_encode")
		return
	}

	r.mu.Lock()
	var slow []RelayClient
	for c := range r.clients {
		if !c.Send(frame) {
			slow = append(slow, c)
		}
	}
	r.mu.Unlock()

	for _, c := range slow {
		r.log.Warn("dropping slow client")
		r.metrics.RecordError("relay_slow_client")
		c.Close()
		go r.Leave(c)
	}

	r.metrics.RecordTradesRelayed(len(trades))
	for i := range trades {
		t := &trades[i]
		r.metrics.RecordLastPrice(t.Symbol, t.Price)
		if r.tape != nil {
			if err := r.tape.Process(ctx, t); err != nil {
				r.log.Debug("tape write failed", applogger.String("symbol", t.Symbol), applogger.Error(err))
			}
		}
	}
}
