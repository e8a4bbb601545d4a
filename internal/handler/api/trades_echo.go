package api

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// TradesEchoHandler serves archived trades from the tape.
type TradesEchoHandler struct {
	logger  *xlogger.Logger
	history *usecase.TradeHistoryUseCase
}

func NewTradesEchoHandler(logger *xlogger.Logger, history *usecase.TradeHistoryUseCase) *TradesEchoHandler {
	return &TradesEchoHandler{logger: logger, history: history}
}

func (h *TradesEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/trades/:symbol", h.Trades)
}

func (h *TradesEchoHandler) Trades(c echo.Context) error {
	req := &models.TradesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p := usecase.TradeHistoryParams{Symbol: req.Symbol, Limit: req.Limit}
	if req.From != "" {
		from, ok := util.ParseTime(req.From)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid from: %q", req.From))
		}
		p.From = from
	}
	if req.To != "" {
		to, ok := util.ParseTime(req.To)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid to: %q", req.To))
		}
		p.To = to
	}

	res, err := h.history.Trades(c.Request().Context(), p)
	if err != nil {
		return failure(c, h.logger, "trades", err)
	}
	return xhttp.JSONResponse(c, res)
}
