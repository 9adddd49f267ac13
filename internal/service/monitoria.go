package service

import (
	"context"
	"strconv"

	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/deppfellow/monitoria-backend/internal/lib/job"
	"github.com/deppfellow/monitoria-backend/internal/logger"
	"github.com/deppfellow/monitoria-backend/internal/model"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MonitoriaRepository is the storage the service needs.
type MonitoriaRepository interface {
	ListActive(ctx context.Context) ([]model.Monitoria, error)
	GetByID(ctx context.Context, id int64) (*model.Monitoria, error)
	Create(ctx context.Context, in model.CreateMonitoriaInput) (*model.Monitoria, error)
	Update(ctx context.Context, id int64, in model.UpdateMonitoriaInput) (*model.Monitoria, error)
	SetStatus(ctx context.Context, id int64, status model.MonitoriaStatus) (*model.Monitoria, error)
	HasActiveDuplicate(ctx context.Context, disciplinaID, monitorID, excludeID int64) (bool, error)
	GetDisciplina(ctx context.Context, id int64) (*model.Disciplina, error)
	GetMonitor(ctx context.Context, id int64) (*model.Monitor, error)
}

// TaskQueue enqueues background tasks.
type TaskQueue interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
}

var (
	codeMonitoriaNotFound  = "MONITORIA_NOT_FOUND"
	codeDisciplinaNotFound = "DISCIPLINA_NOT_FOUND"
	codeMonitorNotFound    = "MONITOR_NOT_FOUND"
	codeMonitoriaExists    = "MONITORIA_ALREADY_EXISTS"
	codeAlreadyActive      = "MONITORIA_ALREADY_ACTIVE"
	codeAlreadyInactive    = "MONITORIA_ALREADY_INACTIVE"
)

var (
	ErrMonitoriaNotFound  = errs.NewNotFoundError("Monitoria não encontrada.", true, &codeMonitoriaNotFound)
	ErrDisciplinaNotFound = errs.NewNotFoundError("Disciplina não encontrada.", true, &codeDisciplinaNotFound)
	ErrMonitorNotFound    = errs.NewNotFoundError("Monitor não encontrado ou inativo.", true, &codeMonitorNotFound)
	ErrDuplicateMonitoria = errs.NewConflictError("Este monitor já possui uma monitoria ativa para esta disciplina.", true, &codeMonitoriaExists)
	ErrAlreadyActive      = errs.NewConflictError("A monitoria já está ativa.", true, &codeAlreadyActive)
	ErrAlreadyInactive    = errs.NewConflictError("A monitoria já está inativa.", true, &codeAlreadyInactive)
	ErrNotOwner           = errs.NewForbiddenError("Você não tem permissão para alterar esta monitoria.", true)
	ErrAdminOnly          = errs.NewForbiddenError("Apenas administradores podem executar esta operação.", true)
)

type MonitoriaService struct {
	repo      MonitoriaRepository
	queue     TaskQueue
	adminRole string
	logger    *zerolog.Logger
}

func NewMonitoriaService(repo MonitoriaRepository, queue TaskQueue, adminRole string, logger *zerolog.Logger) *MonitoriaService {
	return &MonitoriaService{
		repo:      repo,
		queue:     queue,
		adminRole: adminRole,
		logger:    logger,
	}
}

// List returns every active monitoria. It never returns nil on success.
func (s *MonitoriaService) List(ctx context.Context) ([]model.Monitoria, error) {
	monitorias, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list monitorias")
	}
	if monitorias == nil {
		monitorias = []model.Monitoria{}
	}
	return monitorias, nil
}

// Create opens a monitoria for an existing discipline and an active monitor.
// Non-admins may only open monitorias for themselves.
func (s *MonitoriaService) Create(ctx context.Context, actor model.Actor, in model.CreateMonitoriaInput) (*model.Monitoria, error) {
	disciplina, err := s.repo.GetDisciplina(ctx, in.DisciplinaID)
	if err != nil {
		return nil, notFoundAs(err, ErrDisciplinaNotFound)
	}

	monitor, err := s.repo.GetMonitor(ctx, in.MonitorID)
	if err != nil {
		return nil, notFoundAs(err, ErrMonitorNotFound)
	}
	if !monitor.Ativo {
		return nil, ErrMonitorNotFound
	}

	if !s.isAdmin(actor) && monitor.ExternalID != actor.UserID {
		return nil, ErrNotOwner
	}

	if err := s.ensureNoActiveDuplicate(ctx, in.DisciplinaID, in.MonitorID, 0); err != nil {
		return nil, err
	}

	monitoria, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info().
		Int64("monitoria_id", monitoria.ID).
		Int64("disciplina_id", monitoria.DisciplinaID).
		Int64("monitor_id", monitoria.MonitorID).
		Msg("monitoria created")

	s.notify(ctx, job.NewMonitoriaAssignedTask, monitoria, monitor, disciplina)

	return monitoria, nil
}

// GetByID looks a monitoria up by its raw path id. An id that is not a
// number cannot exist, so it is reported as not found.
func (s *MonitoriaService) GetByID(ctx context.Context, _ model.Actor, rawID string) (*model.Monitoria, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrMonitoriaNotFound
	}
	return s.get(ctx, id)
}

// Update applies a partial update. Non-admins may only update monitorias they
// are the monitor of, and only admins may change the status, the same as
// Delete and Reactivate. Moving a monitoria back to ativa is subject to the
// one-active-monitoria-per-discipline rule.
func (s *MonitoriaService) Update(ctx context.Context, actor model.Actor, id int64, in model.UpdateMonitoriaInput) (*model.Monitoria, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChange := in.Status != nil && *in.Status != current.Status

	if !s.isAdmin(actor) {
		if statusChange {
			return nil, ErrAdminOnly
		}
		monitor, err := s.repo.GetMonitor(ctx, current.MonitorID)
		if err != nil {
			return nil, notFoundAs(err, ErrMonitorNotFound)
		}
		if monitor.ExternalID != actor.UserID {
			return nil, ErrNotOwner
		}
	}

	if statusChange && *in.Status == model.StatusActive {
		if err := s.ensureNoActiveDuplicate(ctx, current.DisciplinaID, current.MonitorID, current.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, notFoundAs(err, ErrMonitoriaNotFound)
	}

	s.log(ctx).Info().
		Int64("monitoria_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("monitoria updated")

	if statusChange && updated.Status == model.StatusInactive {
		s.notifyByIDs(ctx, job.NewMonitoriaDeactivatedTask, updated)
	}

	return updated, nil
}

// Delete is a soft delete: the monitoria becomes inativa and stays stored.
func (s *MonitoriaService) Delete(ctx context.Context, actor model.Actor, rawID string) (*model.Monitoria, error) {
	if !s.isAdmin(actor) {
		return nil, ErrAdminOnly
	}

	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrMonitoriaNotFound
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.StatusInactive {
		return nil, ErrAlreadyInactive
	}

	deleted, err := s.repo.SetStatus(ctx, id, model.StatusInactive)
	if err != nil {
		return nil, notFoundAs(err, ErrMonitoriaNotFound)
	}

	s.log(ctx).Info().
		Int64("monitoria_id", deleted.ID).
		Msg("monitoria deactivated")

	s.notifyByIDs(ctx, job.NewMonitoriaDeactivatedTask, deleted)

	return deleted, nil
}

// Reactivate sets an inativa or concluida monitoria back to ativa.
func (s *MonitoriaService) Reactivate(ctx context.Context, actor model.Actor, rawID string) (*model.Monitoria, error) {
	if !s.isAdmin(actor) {
		return nil, ErrAdminOnly
	}

	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrMonitoriaNotFound
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.StatusActive {
		return nil, ErrAlreadyActive
	}

	if err := s.ensureNoActiveDuplicate(ctx, current.DisciplinaID, current.MonitorID, current.ID); err != nil {
		return nil, err
	}

	reactivated, err := s.repo.SetStatus(ctx, id, model.StatusActive)
	if err != nil {
		return nil, notFoundAs(err, ErrMonitoriaNotFound)
	}

	s.log(ctx).Info().
		Int64("monitoria_id", reactivated.ID).
		Msg("monitoria reactivated")

	return reactivated, nil
}

func (s *MonitoriaService) get(ctx context.Context, id int64) (*model.Monitoria, error) {
	monitoria, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrMonitoriaNotFound)
	}
	return monitoria, nil
}

func (s *MonitoriaService) ensureNoActiveDuplicate(ctx context.Context, disciplinaID, monitorID, excludeID int64) error {
	exists, err := s.repo.HasActiveDuplicate(ctx, disciplinaID, monitorID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateMonitoria
	}
	return nil
}

func (s *MonitoriaService) log(ctx context.Context) *zerolog.Logger {
	return logger.FromContext(ctx, s.logger)
}

func (s *MonitoriaService) isAdmin(actor model.Actor) bool {
	return isAdmin(actor, s.adminRole)
}

type taskBuilder func(job.MonitoriaEmailPayload) (*asynq.Task, error)

// notifyByIDs loads the monitor and discipline of m before notifying.
// Lookup failures only cost the e-mail.
func (s *MonitoriaService) notifyByIDs(ctx context.Context, build taskBuilder, m *model.Monitoria) {
	monitor, err := s.repo.GetMonitor(ctx, m.MonitorID)
	if err != nil {
		s.log(ctx).Warn().Err(err).Int64("monitoria_id", m.ID).Msg("skipping notification: monitor lookup failed")
		return
	}
	disciplina, err := s.repo.GetDisciplina(ctx, m.DisciplinaID)
	if err != nil {
		s.log(ctx).Warn().Err(err).Int64("monitoria_id", m.ID).Msg("skipping notification: discipline lookup failed")
		return
	}
	s.notify(ctx, build, m, monitor, disciplina)
}

// notify enqueues an e-mail task. The request has already succeeded, so a
// failure here is logged and swallowed.
func (s *MonitoriaService) notify(ctx context.Context, build taskBuilder, m *model.Monitoria, monitor *model.Monitor, disciplina *model.Disciplina) {
	if s.queue == nil {
		return
	}

	task, err := build(job.MonitoriaEmailPayload{
		MonitoriaID:    m.ID,
		To:             monitor.Email,
		MonitorName:    monitor.Nome,
		DisciplinaNome: disciplina.Nome,
		Local:          m.Local,
	})
	if err == nil {
		err = s.queue.Enqueue(ctx, task)
	}
	if err != nil {
		s.log(ctx).Error().
			Err(err).
			Int64("monitoria_id", m.ID).
			Msg("failed to enqueue monitoria e-mail")
	}
}

// notFoundAs replaces a no-rows error with the domain's not-found error.
func notFoundAs(err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
