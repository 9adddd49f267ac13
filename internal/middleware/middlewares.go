package middleware

import (
	"github.com/deppfellow/monitoria-backend/internal/server"
)

// Middlewares groups every middleware component so router setup receives one
// value instead of many.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares builds the middleware set. Tracing degrades to no-ops when
// New Relic is not configured.
func NewMiddlewares(s *server.Server) *Middlewares {
	nrApp := s.LoggerService.GetApplication()

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
