package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/scholard/internal/config"
	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/logging"
)

// HeaderSessionID scopes last-query-wins cancellation to one client session.
const HeaderSessionID = "X-Session-ID"

// requestContext attaches the request ID, session and logger to the request
// context so services log with them.
func requestContext(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			if id := c.Response().Header().Get(echo.HeaderXRequestID); logging.ValidateID(id) == nil {
				ctx = logging.WithRequestID(ctx, id)
			}
			if session := req.Header.Get(HeaderSessionID); session != "" {
				if err := logging.ValidateID(session); err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid "+HeaderSessionID+" header")
				}
				ctx = logging.WithSessionID(ctx, session)
				ctx = dispatch.WithSession(ctx, session)
			}
			ctx = logging.WithLogger(ctx, logger)

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn(req.Context(), "http request", fields...)
			} else {
				logger.Info(req.Context(), "http request", fields...)
			}
			return nil
		}
	}
}

// rateLimiter limits each client IP to rps sustained requests with the
// given burst.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// bearerAuth requires "Authorization: Bearer <token>".
func bearerAuth(token config.Secret) echo.MiddlewareFunc {
	want := []byte(token.Value())
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), want) == 1, nil
		},
	})
}
