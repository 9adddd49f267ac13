package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deppfellow/monitoria-backend/internal/model"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/deppfellow/monitoria-backend/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const monitoriaColumns = `
	id,
	disciplina_id,
	monitor_id,
	local,
	horarios_disponiveis,
	status,
	created_at,
	updated_at`

type MonitoriaRepository struct {
	server *server.Server
}

func NewMonitoriaRepository(s *server.Server) *MonitoriaRepository {
	return &MonitoriaRepository{server: s}
}

func scanMonitoria(row pgx.Row) (*model.Monitoria, error) {
	var m model.Monitoria
	var horarios []byte

	err := row.Scan(
		&m.ID,
		&m.DisciplinaID,
		&m.MonitorID,
		&m.Local,
		&horarios,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if horarios != nil {
		m.HorariosDisponiveis = json.RawMessage(horarios)
	}
	return &m, nil
}

// jsonbArg turns an optional JSON document into a jsonb parameter.
func jsonbArg(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}

// ListActive returns the monitorias with status ativa, oldest first.
func (r *MonitoriaRepository) ListActive(ctx context.Context) ([]model.Monitoria, error) {
	stmt := `SELECT` + monitoriaColumns + `
		FROM monitorias
		WHERE status = @status
		ORDER BY id`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"status": model.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list monitorias query: %w", err)
	}

	monitorias, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Monitoria, error) {
		m, err := scanMonitoria(row)
		if err != nil {
			return model.Monitoria{}, err
		}
		return *m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:monitorias: %w", err)
	}

	return monitorias, nil
}

func (r *MonitoriaRepository) GetByID(ctx context.Context, id int64) (*model.Monitoria, error) {
	stmt := `SELECT` + monitoriaColumns + `
		FROM monitorias
		WHERE id = @id`

	m, err := scanMonitoria(r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id}))
	if err != nil {
		return nil, sqlerr.WrapNoRows("monitorias", err)
	}
	return m, nil
}

// Create inserts a monitoria with status ativa.
func (r *MonitoriaRepository) Create(ctx context.Context, in model.CreateMonitoriaInput) (*model.Monitoria, error) {
	stmt := `
		INSERT INTO monitorias (disciplina_id, monitor_id, local, horarios_disponiveis, status)
		VALUES (@disciplina_id, @monitor_id, @local, @horarios_disponiveis, @status)
		RETURNING` + monitoriaColumns

	m, err := scanMonitoria(r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"disciplina_id":        in.DisciplinaID,
		"monitor_id":           in.MonitorID,
		"local":                in.Local,
		"horarios_disponiveis": jsonbArg(in.HorariosDisponiveis),
		"status":               model.StatusActive,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to insert monitoria: %w", err)
	}
	return m, nil
}

// Update writes the fields set in in and leaves the others untouched.
func (r *MonitoriaRepository) Update(ctx context.Context, id int64, in model.UpdateMonitoriaInput) (*model.Monitoria, error) {
	if in.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{"updated_at = NOW()"}
	args := pgx.NamedArgs{"id": id}

	if in.HorariosDisponiveis != nil {
		sets = append(sets, "horarios_disponiveis = @horarios_disponiveis")
		args["horarios_disponiveis"] = jsonbArg(in.HorariosDisponiveis)
	}
	if in.Local != nil {
		sets = append(sets, "local = @local")
		args["local"] = *in.Local
	}
	if in.Status != nil {
		sets = append(sets, "status = @status")
		args["status"] = *in.Status
	}

	stmt := `UPDATE monitorias SET ` + strings.Join(sets, ", ") + `
		WHERE id = @id
		RETURNING` + monitoriaColumns

	m, err := scanMonitoria(r.server.DB.Pool.QueryRow(ctx, stmt, args))
	if err != nil {
		return nil, sqlerr.WrapNoRows("monitorias", err)
	}
	return m, nil
}

func (r *MonitoriaRepository) SetStatus(ctx context.Context, id int64, status model.MonitoriaStatus) (*model.Monitoria, error) {
	stmt := `
		UPDATE monitorias
		SET status = @status, updated_at = NOW()
		WHERE id = @id
		RETURNING` + monitoriaColumns

	m, err := scanMonitoria(r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"id":     id,
		"status": status,
	}))
	if err != nil {
		return nil, sqlerr.WrapNoRows("monitorias", err)
	}
	return m, nil
}

// HasActiveDuplicate reports whether the monitor already has an active
// monitoria for the discipline, ignoring the row excludeID (0 for none).
func (r *MonitoriaRepository) HasActiveDuplicate(ctx context.Context, disciplinaID, monitorID, excludeID int64) (bool, error) {
	stmt := `
		SELECT EXISTS (
			SELECT 1 FROM monitorias
			WHERE disciplina_id = @disciplina_id
				AND monitor_id = @monitor_id
				AND status = @status
				AND id <> @exclude_id
		)`

	var exists bool
	err := r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"disciplina_id": disciplinaID,
		"monitor_id":    monitorID,
		"status":        model.StatusActive,
		"exclude_id":    excludeID,
	}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate monitoria: %w", err)
	}
	return exists, nil
}

func (r *MonitoriaRepository) GetDisciplina(ctx context.Context, id int64) (*model.Disciplina, error) {
	stmt := `SELECT id, nome, codigo FROM disciplinas WHERE id = @id`

	var d model.Disciplina
	err := r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id}).Scan(&d.ID, &d.Nome, &d.Codigo)
	if err != nil {
		return nil, sqlerr.WrapNoRows("disciplinas", err)
	}
	return &d, nil
}

// GetMonitor loads the user acting as monitor.
func (r *MonitoriaRepository) GetMonitor(ctx context.Context, id int64) (*model.Monitor, error) {
	stmt := `SELECT id, external_id, nome, email, ativo FROM usuarios WHERE id = @id`

	var m model.Monitor
	err := r.server.DB.Pool.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id}).
		Scan(&m.ID, &m.ExternalID, &m.Nome, &m.Email, &m.Ativo)
	if err != nil {
		return nil, sqlerr.WrapNoRows("usuarios", err)
	}
	return &m, nil
}
