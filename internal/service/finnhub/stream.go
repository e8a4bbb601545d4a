package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"MarketPulse/internal/domain/models"
	drepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

var errNotConnected = errors.New("finnhub: stream not connected")

// Stream implements TradeStream backed by the Finnhub WebSocket.
// The subscription set survives reconnects; Connect replays it.
type Stream struct {
	apiKey       string
	websocketURL string
	pingInterval time.Duration
	dialer       *websocket.Dialer
	log          *applogger.Logger

	mu        sync.Mutex // guards conn writes and subs
	conn      *websocket.Conn
	subs      map[string]struct{}
	connected atomic.Bool
}

// NewStream creates a Finnhub trade stream.
func NewStream(apiKey, websocketURL string, pingInterval time.Duration, log *applogger.Logger) *Stream {
	if log == nil {
		log = applogger.Nop()
	}
	return &Stream{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		pingInterval: pingInterval,
		dialer:       websocket.DefaultDialer,
		log:          log.Component("finnhub_stream"),
		subs:         make(map[string]struct{}),
	}
}

var _ drepo.TradeStream = (*Stream)(nil)

type wsCommand struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

type wsMessage struct {
	Type string         `json:"type"`
	Data []models.Trade `json:"data"`
}

// Connect dials the upstream and resubscribes every known symbol.
func (s *Stream) Connect(ctx context.Context) error {
	u, err := url.Parse(s.websocketURL)
	if err != nil {
		return fmt.Errorf("finnhub stream url: %w", err)
	}
	q := u.Query()
	q.Set("token", s.apiKey)
	u.RawQuery = q.Encode()

	conn, _, err := s.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("finnhub connect: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.connected.Store(true)

	for sym := range s.subs {
		if err := conn.WriteJSON(wsCommand{Type: "subscribe", Symbol: sym}); err != nil {
			return fmt.Errorf("resubscribe %s: %w", sym, err)
		}
	}
	s.log.Info("connected", applogger.Int("subscriptions", len(s.subs)))
	return nil
}

// Subscribe records symbol and forwards it upstream when connected.
func (s *Stream) Subscribe(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[symbol] = struct{}{}
	return s.send(wsCommand{Type: "subscribe", Symbol: symbol})
}

// Unsubscribe forgets symbol and forwards it upstream when connected.
func (s *Stream) Unsubscribe(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, symbol)
	return s.send(wsCommand{Type: "unsubscribe", Symbol: symbol})
}

// send writes cmd if there is a live connection. Caller holds mu.
func (s *Stream) send(cmd wsCommand) error {
	if s.conn == nil || !s.connected.Load() {
		return nil
	}
	if err := s.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("%s %s: %w", cmd.Type, cmd.Symbol, err)
	}
	return nil
}

// Symbols returns the current subscription set, sorted.
func (s *Stream) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.subs))
	for sym := range s.subs {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// ClearSubscriptions drops the whole subscription set without writing upstream.
func (s *Stream) ClearSubscriptions() {
	s.mu.Lock()
	s.subs = make(map[string]struct{})
	s.mu.Unlock()
}

// Read streams trade batches until the connection fails or ctx ends.
// Non-trade frames (ping, error) are skipped. Both channels close on exit.
func (s *Stream) Read(ctx context.Context) (<-chan []models.Trade, <-chan error) {
	batches := make(chan []models.Trade, 256)
	errs := make(chan error, 1)

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		close(batches)
		errs <- errNotConnected
		close(errs)
		return batches, errs
	}

	done := make(chan struct{})

	go func() {
		var tick <-chan time.Time
		if s.pingInterval > 0 {
			ticker := time.NewTicker(s.pingInterval)
			defer ticker.Stop()
			tick = ticker.C
		}
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				// unblock ReadMessage
				_ = conn.Close()
				return
			case <-tick:
				s.mu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				s.mu.Unlock()
				if err != nil {
					s.log.Debug("ping failed", applogger.Error(err))
				}
			}
		}
	}()

	go func() {
		defer close(errs)
		defer close(batches)
		defer close(done)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				s.connected.Store(false)
				if ctx.Err() != nil {
					return
				}
				errs <- fmt.Errorf("finnhub read: %w", err)
				return
			}

			var m wsMessage
			if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" || len(m.Data) == 0 {
				continue
			}

			select {
			case batches <- m.Data:
			case <-ctx.Done():
				return
			default:
				s.log.Warn("dropping trade batch", applogger.Int("trades", len(m.Data)))
			}
		}
	}()

	return batches, errs
}

// Close closes the connection. Subscriptions are kept.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected.Store(false)
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// IsConnected reports whether the upstream connection is live.
func (s *Stream) IsConnected() bool { return s.connected.Load() }
