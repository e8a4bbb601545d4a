package api

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BriefingEchoHandler serves the daily briefing. Responses are never cached.
type BriefingEchoHandler struct {
	logger   *xlogger.Logger
	briefing *usecase.BriefingUseCase
}

func NewBriefingEchoHandler(logger *xlogger.Logger, briefing *usecase.BriefingUseCase) *BriefingEchoHandler {
	return &BriefingEchoHandler{logger: logger, briefing: briefing}
}

func (h *BriefingEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/daily-briefing", h.Daily)
	g.POST("/daily-briefing/score", h.Score)
}

func (h *BriefingEchoHandler) Daily(c echo.Context) error {
	resp := h.briefing.Generate(c.Request().Context())
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.JSONResponse(c, resp)
}

// Score rates a caller-supplied snapshot. Malformed snapshots never reach the scorer.
func (h *BriefingEchoHandler) Score(c echo.Context) error {
	snapshot := &models.MarketSnapshot{}
	if verr := xhttp.ReadAndValidateRequest(c, snapshot); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.JSONResponse(c, h.briefing.Score(*snapshot))
}
