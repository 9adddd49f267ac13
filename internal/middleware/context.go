package middleware

import (
	"github.com/deppfellow/monitoria-backend/internal/logger"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	UserIDKey      = "user_id"
	UserRoleKey    = "user_role"
	PermissionsKey = "permissions"
	LoggerKey      = "logger"
)

// ContextEnhancer builds the request-scoped logger: request id, method, route,
// client ip, New Relic trace ids and, once known, the caller's identity.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			contextLogger = withUser(c, contextLogger)
			setLogger(c, &contextLogger)

			return next(c)
		}
	}
}

// withUser adds user_id and user_role when the auth gate has set them.
func withUser(c echo.Context, l zerolog.Logger) zerolog.Logger {
	if userID := GetUserID(c); userID != "" {
		l = l.With().Str("user_id", userID).Logger()
	}
	if userRole := GetUserRole(c); userRole != "" {
		l = l.With().Str("user_role", userRole).Logger()
	}
	return l
}

// setLogger stores l on the Echo context and on the request context, so code
// that only sees a context.Context can log with request fields.
func setLogger(c echo.Context, l *zerolog.Logger) {
	c.Set(LoggerKey, l)
	c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), l)))
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

func GetUserRole(c echo.Context) string {
	if role, ok := c.Get(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

// GetLogger retrieves the request-scoped logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
