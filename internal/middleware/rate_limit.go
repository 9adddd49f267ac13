package middleware

import (
	"net/http"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits requests per client IP and reports rejections
// to New Relic.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter, or a pass-through when the configured rate is 0.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	perSecond := r.server.Config.Server.RateLimitPerSecond
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(perSecond * 2),
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/status"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return &errs.HTTPError{
				Code:    "FORBIDDEN",
				Message: "Could not identify the client",
				Status:  http.StatusForbidden,
			}
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			r.server.Logger.Warn().
				Str("identifier", identifier).
				Str("path", c.Path()).
				Msg("rate limit exceeded")
			return &errs.HTTPError{
				Code:    "TOO_MANY_REQUESTS",
				Message: "Too many requests",
				Status:  http.StatusTooManyRequests,
			}
		},
	})
}

func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
