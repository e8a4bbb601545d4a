package api

import (
	"context"
	"net/http"

	"MarketPulse/internal/handler/ws"
	"MarketPulse/internal/service/ratelimit"

	"github.com/labstack/echo/v4"
)

// RelayStatus reports the live state of the trade relay.
type RelayStatus interface {
	Clients() int
	IsConnected() bool
}

// HealthChecker is an optional dependency probed by /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router mounts the REST API under /api together with the relay socket,
// the health probe and the optional static site.
type Router struct {
	market     *MarketEchoHandler
	calendar   *CalendarEchoHandler
	technicals *TechnicalsEchoHandler
	trades     *TradesEchoHandler
	briefing   *BriefingEchoHandler
	ws         *ws.Handler
	limiter    *ratelimit.Limiter
	relay      RelayStatus
	tape       HealthChecker
	staticDir  string
}

type RouterParams struct {
	Market     *MarketEchoHandler
	Calendar   *CalendarEchoHandler
	Technicals *TechnicalsEchoHandler
	Trades     *TradesEchoHandler
	Briefing   *BriefingEchoHandler
	WS         *ws.Handler
	Limiter    *ratelimit.Limiter
	Relay      RelayStatus
	Tape       HealthChecker
	StaticDir  string
}

func NewRouter(p RouterParams) *Router {
	return &Router{
		market:     p.Market,
		calendar:   p.Calendar,
		technicals: p.Technicals,
		trades:     p.Trades,
		briefing:   p.Briefing,
		ws:         p.WS,
		limiter:    p.Limiter,
		relay:      p.Relay,
		tape:       p.Tape,
		staticDir:  p.StaticDir,
	}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	if r.limiter != nil {
		g.Use(r.limiter.Middleware())
	}
	r.market.RegisterRoutes(g)
	r.calendar.RegisterRoutes(g)
	r.technicals.RegisterRoutes(g)
	r.trades.RegisterRoutes(g)
	r.briefing.RegisterRoutes(g)

	if r.ws != nil {
		r.ws.RegisterRoutes(e)
	}
	e.GET("/healthz", r.Health)
	if r.staticDir != "" {
		e.Static("/", r.staticDir)
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Clients  int    `json:"clients"`
	Upstream bool   `json:"upstreamConnected"`
	Tape     string `json:"tape"`
}

// Health stays 200 while the tape is down; the relay and REST API do not depend on it.
func (r *Router) Health(c echo.Context) error {
	resp := healthResponse{Status: "ok", Tape: "disabled"}
	if r.relay != nil {
		resp.Clients = r.relay.Clients()
		resp.Upstream = r.relay.IsConnected()
	}
	if r.tape != nil {
		resp.Tape = "ok"
		if err := r.tape.Health(c.Request().Context()); err != nil {
			resp.Tape = "error"
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
