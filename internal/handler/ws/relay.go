package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"MarketPulse/internal/usecase"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// Relay is the hub a browser connection joins.
type Relay interface {
	Join(c usecase.RelayClient)
	Leave(c usecase.RelayClient)
	Subscribe(symbol string) error
	Unsubscribe(symbol string) error
}

// Handler upgrades /ws connections and attaches them to the relay.
type Handler struct {
	relay      Relay
	log        *xlogger.Logger
	sendBuffer int
	upgrader   websocket.Upgrader
}

func NewHandler(relay Relay, log *xlogger.Logger, sendBuffer int) *Handler {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Handler{
		relay:      relay,
		log:        log.Component("ws"),
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

type clientMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// Serve runs one client until it disconnects.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		h.log.Debug("upgrade failed", xlogger.Error(err))
		return nil
	}

	cl := newClient(conn, h.sendBuffer)
	go cl.writePump()

	h.relay.Join(cl)
	h.log.Info("client connected", xlogger.String("remote", c.RealIP()))
	defer func() {
		cl.Close()
		h.relay.Leave(cl)
		h.log.Info("client disconnected", xlogger.String("remote", c.RealIP()))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		var msg clientMessage
		if err := json.Unmarshal(b, &msg); err != nil {
			h.log.Debug("ignoring malformed client message", xlogger.Error(err))
			continue
		}
		h.handle(msg)
	}
}

func (h *Handler) handle(msg clientMessage) {
	sym := util.NormalizeSymbol(msg.Symbol)
	if sym == "" {
		return
	}
	var err error
	switch msg.Type {
	case "subscribe":
		err = h.relay.Subscribe(sym)
	case "unsubscribe":
		err = h.relay.Unsubscribe(sym)
	default:
		return
	}
	if err != nil {
		h.log.Warn("upstream "+msg.Type+" failed", xlogger.String("symbol", sym), xlogger.Error(err))
	}
}

// client is one browser connection. Frames queue in send and a single
// goroutine writes them out.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{conn: conn, send: make(chan []byte, buffer), done: make(chan struct{})}
}

// Send queues frame without blocking. It reports false when the queue is full.
func (c *client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

var _ usecase.RelayClient = (*client)(nil)
