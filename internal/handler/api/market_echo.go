package api

import (
	"errors"
	"net/http"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves quotes, boards and news.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	market *usecase.MarketUseCase
	news   *usecase.NewsUseCase
}

func NewMarketEchoHandler(logger *xlogger.Logger, market *usecase.MarketUseCase, news *usecase.NewsUseCase) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, market: market, news: news}
}

func (h *MarketEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/quote/:symbol", h.Quote)
	g.GET("/profile/:symbol", h.Profile)
	g.GET("/futures/:symbol", h.Futures)
	g.GET("/market-status", h.MarketStatus)
	g.GET("/search", h.Search)
	g.GET("/news/market", h.MarketNews)
	g.GET("/news/:symbol", h.CompanyNews)
	g.GET("/indices", h.board(usecase.IndexBoard, true))
	g.GET("/sectors", h.board(usecase.SectorBoard, false))
	g.GET("/global-indices", h.board(usecase.GlobalBoard, false))
	g.GET("/commodities", h.board(usecase.CommodityBoard, false))
	g.GET("/market-movers", h.Movers)
	g.GET("/fear-greed", h.FearGreed)
}

func (h *MarketEchoHandler) Quote(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, err := h.market.Quote(c.Request().Context(), util.NormalizeSymbol(req.Symbol))
	if err != nil {
		return failure(c, h.logger, "quote", err)
	}
	return xhttp.JSONResponse(c, q)
}

func (h *MarketEchoHandler) Profile(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, err := h.market.Profile(c.Request().Context(), util.NormalizeSymbol(req.Symbol))
	if err != nil {
		return failure(c, h.logger, "profile", err)
	}
	return xhttp.JSONResponse(c, p)
}

// Futures answers 200 with an error field when nothing resolves.
func (h *MarketEchoHandler) Futures(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sym := util.NormalizeSymbol(req.Symbol)
	q, err := h.market.Futures(c.Request().Context(), sym)
	if errors.Is(err, usecase.ErrNoData) {
		return c.JSON(http.StatusOK, map[string]string{"symbol": sym, "error": "No data available"})
	}
	if err != nil {
		return failure(c, h.logger, "futures quote", err)
	}
	return xhttp.JSONResponse(c, q)
}

func (h *MarketEchoHandler) MarketStatus(c echo.Context) error {
	s, err := h.market.MarketStatus(c.Request().Context())
	if err != nil {
		return failure(c, h.logger, "market status", err)
	}
	return xhttp.JSONResponse(c, s)
}

func (h *MarketEchoHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.market.Search(c.Request().Context(), req.Query)
	if err != nil {
		return failure(c, h.logger, "search", err)
	}
	return xhttp.JSONResponse(c, res)
}

func (h *MarketEchoHandler) MarketNews(c echo.Context) error {
	news, err := h.news.MarketNews(c.Request().Context())
	if err != nil {
		return failure(c, h.logger, "market news", err)
	}
	return xhttp.JSONResponse(c, news)
}

func (h *MarketEchoHandler) CompanyNews(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	news, err := h.news.CompanyNews(c.Request().Context(), util.NormalizeSymbol(req.Symbol))
	if err != nil {
		return failure(c, h.logger, "company news", err)
	}
	return xhttp.JSONResponse(c, news)
}

func (h *MarketEchoHandler) board(instruments []models.Instrument, withRange bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		return xhttp.JSONResponse(c, h.market.Board(c.Request().Context(), instruments, withRange))
	}
}

func (h *MarketEchoHandler) Movers(c echo.Context) error {
	return xhttp.JSONResponse(c, h.market.Movers(c.Request().Context()))
}

func (h *MarketEchoHandler) FearGreed(c echo.Context) error {
	return xhttp.JSONResponse(c, h.market.FearGreed(c.Request().Context()))
}
