package api

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CalendarEchoHandler serves the earnings, economic, Fed and forex calendars.
type CalendarEchoHandler struct {
	logger   *xlogger.Logger
	calendar *usecase.CalendarUseCase
}

func NewCalendarEchoHandler(logger *xlogger.Logger, calendar *usecase.CalendarUseCase) *CalendarEchoHandler {
	return &CalendarEchoHandler{logger: logger, calendar: calendar}
}

func (h *CalendarEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/earnings", h.Earnings)
	g.GET("/economic-calendar", h.Economic)
	g.GET("/fed-events", h.FedEvents)
	g.GET("/forex-news", h.ForexNews)
}

func (h *CalendarEchoHandler) Earnings(c echo.Context) error {
	req := &models.EarningsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.calendar.Earnings(c.Request().Context(), req.From, req.To)
	if err != nil {
		return failure(c, h.logger, "earnings calendar", err)
	}
	return xhttp.JSONResponse(c, rows)
}

func (h *CalendarEchoHandler) Economic(c echo.Context) error {
	events, err := h.calendar.EconomicCalendar(c.Request().Context())
	if err != nil {
		return failure(c, h.logger, "economic calendar", err)
	}
	return xhttp.JSONResponse(c, events)
}

func (h *CalendarEchoHandler) FedEvents(c echo.Context) error {
	return xhttp.JSONResponse(c, h.calendar.FedEvents(c.Request().Context()))
}

func (h *CalendarEchoHandler) ForexNews(c echo.Context) error {
	events, err := h.calendar.ForexNews(c.Request().Context())
	if err != nil {
		return failure(c, h.logger, "forex news", err)
	}
	return xhttp.JSONResponse(c, events)
}
