package service

import (
	"github.com/deppfellow/monitoria-backend/internal/lib/job"
	"github.com/deppfellow/monitoria-backend/internal/repository"
	"github.com/deppfellow/monitoria-backend/internal/server"
)

type Services struct {
	Auth      *AuthService
	Monitoria *MonitoriaService
	Job       *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	return &Services{
		Auth:      authService,
		Monitoria: NewMonitoriaService(repos.Monitoria, s.Job, authService.adminRole, s.Logger),
		Job:       s.Job,
	}, nil
}
