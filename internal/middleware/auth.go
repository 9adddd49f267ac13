package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware is the gate in front of every monitoria route.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth verifies the Clerk bearer token. Requests without a valid
// session get a 401 in the standard error shape and never reach next.
// Authenticated requests carry user_id, user_role and permissions.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized))))(
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				auth.server.Logger.Warn().
					Str("function", "RequireAuth").
					Str("request_id", GetRequestID(c)).
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			c.Set(UserIDKey, claims.Subject)
			c.Set(UserRoleKey, claims.ActiveOrganizationRole)
			c.Set(PermissionsKey, claims.Claims.ActiveOrganizationPermissions)

			// The request logger was built before the caller was known.
			l := withUser(c, *GetLogger(c))
			setLogger(c, &l)

			l.Debug().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("user authenticated successfully")

			return next(c)
		})
}

func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireAuth").
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireAuth").
		Str("path", r.URL.Path).
		Msg("request rejected: missing or invalid session token")
}
