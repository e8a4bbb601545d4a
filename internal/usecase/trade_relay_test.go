package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	mu        sync.Mutex
	subs      map[string]struct{}
	connects  int
	closes    int
	connected bool
	batches   chan []models.Trade
}

func newFakeStream() *fakeStream {
	return &fakeStream{subs: make(map[string]struct{}), batches: make(chan []models.Trade, 8)}
}

func (f *fakeStream) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	f.connected = true
	return nil
}

func (f *fakeStream) Subscribe(symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[symbol] = struct{}{}
	return nil
}

func (f *fakeStream) Unsubscribe(symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, symbol)
	return nil
}

func (f *fakeStream) Read(context.Context) (<-chan []models.Trade, <-chan error) {
	return f.batches, make(chan error)
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	f.connected = false
	return nil
}

func (f *fakeStream) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeStream) Symbols() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.subs))
	for s := range f.subs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (f *fakeStream) ClearSubscriptions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = make(map[string]struct{})
}

func (f *fakeStream) stats() (connects, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.closes
}

type fakeClient struct {
	frames chan []byte
	stuck  bool
	closed atomic.Bool
}

func newFakeClient(stuck bool) *fakeClient {
	return &fakeClient{frames: make(chan []byte, 4), stuck: stuck}
}

func (c *fakeClient) Send(frame []byte) bool {
	if c.stuck {
		return false
	}
	select {
	case c.frames <- frame:
		return true
	default:
		return false
	}
}

func (c *fakeClient) Close() { c.closed.Store(true) }

type recordingTape struct {
	mu     sync.Mutex
	trades []models.Trade
}

func (r *recordingTape) Process(_ context.Context, t *models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades = append(r.trades, *t)
	return nil
}

func (r *recordingTape) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trades)
}

func newRelay(stream *fakeStream, tape TapeSink) *TradeRelay {
	r := NewTradeRelay(stream, tape, metrics.Nop{}, applogger.Nop(), 10*time.Millisecond)
	r.Start(context.Background())
	return r
}

func TestRelayConnectsOnFirstClient(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	a, b := newFakeClient(false), newFakeClient(false)
	r.Join(a)
	r.Join(b)

	require.Eventually(t, func() bool { return r.IsConnected() }, time.Second, 5*time.Millisecond)
	connects, _ := stream.stats()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 2, r.Clients())
}

func TestRelayBroadcastsToAllClients(t *testing.T) {
	stream := newFakeStream()
	tape := &recordingTape{}
	r := newRelay(stream, tape)

	a, b := newFakeClient(false), newFakeClient(false)
	r.Join(a)
	r.Join(b)

	stream.batches <- []models.Trade{
		{Symbol: "AAPL", Price: 190.1, Volume: 10, Timestamp: 1741700000000},
		{Symbol: "MSFT", Price: 410.5, Volume: 3, Timestamp: 1741700000001},
	}

	for _, c := range []*fakeClient{a, b} {
		select {
		case frame := <-c.frames:
			var batch models.TradeBatch
			require.NoError(t, json.Unmarshal(frame, &batch))
			assert.Equal(t, "trade", batch.Type)
			require.Len(t, batch.Data, 2)
			assert.Equal(t, "AAPL", batch.Data[0].Symbol)
			assert.Equal(t, 410.5, batch.Data[1].Price)
		case <-time.After(time.Second):
			t.Fatal("no frame relayed")
		}
	}
	require.Eventually(t, func() bool { return tape.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRelayDropsSlowClient(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	good, slow := newFakeClient(false), newFakeClient(true)
	r.Join(good)
	r.Join(slow)

	stream.batches <- []models.Trade{{Symbol: "AAPL", Price: 190, Timestamp: 1}}

	require.Eventually(t, func() bool { return r.Clients() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, slow.closed.Load())
	assert.False(t, good.closed.Load())
	assert.True(t, r.IsConnected())
}

func TestRelayLastLeaveClosesUpstream(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	a, b := newFakeClient(false), newFakeClient(false)
	r.Join(a)
	r.Join(b)
	require.NoError(t, r.Subscribe("AAPL"))
	require.NoError(t, r.Subscribe("TSLA"))

	r.Leave(a)
	assert.Equal(t, []string{"AAPL", "TSLA"}, stream.Symbols())
	_, closes := stream.stats()
	assert.Zero(t, closes)

	r.Leave(b)
	_, closes = stream.stats()
	assert.Equal(t, 1, closes)
	assert.Empty(t, stream.Symbols())
	assert.Zero(t, r.Clients())

	// leaving twice is harmless
	r.Leave(b)
	_, closes = stream.stats()
	assert.Equal(t, 1, closes)
}

func TestRelayReopensForNewClient(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	a := newFakeClient(false)
	r.Join(a)
	require.Eventually(t, func() bool { c, _ := stream.stats(); return c == 1 }, time.Second, 5*time.Millisecond)
	r.Leave(a)

	b := newFakeClient(false)
	r.Join(b)
	require.Eventually(t, func() bool { c, _ := stream.stats(); return c == 2 }, time.Second, 5*time.Millisecond)
}

func TestRelayUnsubscribeRemovesForEveryone(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	require.NoError(t, r.Subscribe("AAPL"))
	require.NoError(t, r.Subscribe("NVDA"))
	require.NoError(t, r.Unsubscribe("AAPL"))
	assert.Equal(t, []string{"NVDA"}, stream.Symbols())
}

func TestRelayShutdownClosesClients(t *testing.T) {
	stream := newFakeStream()
	r := newRelay(stream, nil)

	a, b := newFakeClient(false), newFakeClient(false)
	r.Join(a)
	r.Join(b)

	r.Shutdown()
	assert.True(t, a.closed.Load())
	assert.True(t, b.closed.Load())
	assert.Zero(t, r.Clients())
	_, closes := stream.stats()
	assert.Equal(t, 1, closes)
}
