package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/monitoria-backend/internal/model"
	"github.com/deppfellow/monitoria-backend/internal/server"
)

// AuthService configures the Clerk SDK and answers role questions about the
// authenticated actor.
type AuthService struct {
	server    *server.Server
	adminRole string
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server:    s,
		adminRole: s.Config.Auth.AdminRole,
	}
}

func (a *AuthService) IsAdmin(actor model.Actor) bool {
	return isAdmin(actor, a.adminRole)
}

func isAdmin(actor model.Actor, adminRole string) bool {
	return adminRole != "" && actor.Role == adminRole
}
