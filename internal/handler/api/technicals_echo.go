package api

import (
	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

type TechnicalsEchoHandler struct {
	logger     *xlogger.Logger
	technicals *usecase.TechnicalsUseCase
}

func NewTechnicalsEchoHandler(logger *xlogger.Logger, technicals *usecase.TechnicalsUseCase) *TechnicalsEchoHandler {
	return &TechnicalsEchoHandler{logger: logger, technicals: technicals}
}

func (h *TechnicalsEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/intraday/:symbol", h.Intraday)
	g.GET("/indicator/:symbol", h.Indicator)
}

func (h *TechnicalsEchoHandler) Intraday(c echo.Context) error {
	req := &models.IntradayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	points, err := h.technicals.Intraday(c.Request().Context(), util.NormalizeSymbol(req.Symbol), domrepo.Interval(req.Interval))
	if err != nil {
		return failure(c, h.logger, "intraday data", err)
	}
	return xhttp.JSONResponse(c, points)
}

func (h *TechnicalsEchoHandler) Indicator(c echo.Context) error {
	req := &models.IndicatorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ind, ok := domrepo.ParseIndicator(req.Indicator)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("indicator must be sma, ema, or rsi"))
	}
	series, err := h.technicals.Indicator(c.Request().Context(), util.NormalizeSymbol(req.Symbol), ind)
	if err != nil {
		return failure(c, h.logger, "technical indicator", err)
	}
	return xhttp.JSONResponse(c, series)
}
