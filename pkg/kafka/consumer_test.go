package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	applogger "MarketPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyHandler struct {
	failures int
	calls    int
	panics   bool
}

func (h *flakyHandler) Topic() string { return "trades" }

func (h *flakyHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.panics {
		panic("bad payload")
	}
	if h.calls <= h.failures {
		return errors.New("clickhouse down")
	}
	return nil
}

func newTestConsumer(t *testing.T, retries int) *Consumer {
	t.Helper()
	c, err := NewConsumer(applogger.Nop(),
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(retries, time.Millisecond, 2*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestHandleWithRetryRecovers(t *testing.T) {
	c := newTestConsumer(t, 3)
	h := &flakyHandler{failures: 2}

	attempts, err := c.handleWithRetry(h, []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestHandleWithRetryGivesUp(t *testing.T) {
	c := newTestConsumer(t, 2)
	h := &flakyHandler{failures: 10}

	attempts, err := c.handleWithRetry(h, nil)
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestHandleWithRetryTreatsPanicAsFailure(t *testing.T) {
	c := newTestConsumer(t, 0)
	attempts, err := c.handleWithRetry(&flakyHandler{panics: true}, nil)
	assert.ErrorContains(t, err, "handler panic")
	assert.Equal(t, 1, attempts)
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt <= 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 200*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}

func TestNewConsumerRequiresBrokers(t *testing.T) {
	_, err := NewConsumer(applogger.Nop())
	assert.Error(t, err)
}

func TestStartRequiresHandler(t *testing.T) {
	c := newTestConsumer(t, 0)
	assert.Error(t, c.Start())
}

func TestPartitionLockIsStable(t *testing.T) {
	c := newTestConsumer(t, 0)
	assert.Same(t, c.getPartitionLock("trades", 1), c.getPartitionLock("trades", 1))
	assert.NotSame(t, c.getPartitionLock("trades", 1), c.getPartitionLock("trades", 2))
}
