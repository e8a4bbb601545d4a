package api

import (
	"errors"

	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// failure maps a use case error onto the HTTP error envelope.
func failure(c echo.Context, log *xlogger.Logger, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, usecase.ErrTechnicalsDisabled), errors.Is(err, usecase.ErrTapeDisabled):
		appErr = xhttp.UnavailableError(err.Error())
	case errors.Is(err, usecase.ErrInvalidRange):
		appErr = xhttp.BadRequestError(err.Error())
	default:
		log.Error(op+" failed", xlogger.String("path", c.Path()), xlogger.Error(err))
		appErr = xhttp.UpstreamError("Failed to fetch "+op, err)
	}
	return xhttp.AppErrorResponse(c, appErr)
}
