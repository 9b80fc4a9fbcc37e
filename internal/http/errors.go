package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/researcher"
)

// toHTTPError maps service errors to status codes.
func toHTTPError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, dispatch.ErrSuperseded):
		return echo.NewHTTPError(http.StatusConflict, "superseded by a newer request").SetInternal(err)
	case errors.Is(err, dispatch.ErrClosed):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "shutting down").SetInternal(err)
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out").SetInternal(err)
	case errors.Is(err, citation.ErrPaperNotFound),
		errors.Is(err, researcher.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, researcher.ErrDuplicateRequest),
		errors.Is(err, researcher.ErrAlreadyResponded):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	case errors.Is(err, researcher.ErrInvalidProfile),
		errors.Is(err, researcher.ErrInvalidStatus),
		errors.Is(err, researcher.ErrSelfConnection),
		errors.Is(err, citation.ErrUnknownFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
