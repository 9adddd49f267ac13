package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/monitoria-backend/internal/lib/email"
	"github.com/hibiken/asynq"
)

func (j *JobService) handleMonitoriaAssignedTask(ctx context.Context, t *asynq.Task) error {
	return j.handleMonitoriaEmail(ctx, t, "monitoria_assigned", j.mailer.SendMonitoriaAssignedEmail)
}

func (j *JobService) handleMonitoriaDeactivatedTask(ctx context.Context, t *asynq.Task) error {
	return j.handleMonitoriaEmail(ctx, t, "monitoria_deactivated", j.mailer.SendMonitoriaDeactivatedEmail)
}

// handleMonitoriaEmail decodes the payload and sends one e-mail. A returned
// error makes Asynq retry the task; a payload that cannot be decoded never
// will, so it is skipped.
func (j *JobService) handleMonitoriaEmail(
	ctx context.Context,
	t *asynq.Task,
	kind string,
	send func(context.Context, email.MonitoriaEmail) error,
) error {
	var p MonitoriaEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", kind, err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", kind).
		Str("to", p.To).
		Int64("monitoria_id", p.MonitoriaID).
		Logger()

	logger.Info().Msg("processing e-mail task")

	err := send(ctx, email.MonitoriaEmail{
		To:             p.To,
		MonitorName:    p.MonitorName,
		DisciplinaNome: p.DisciplinaNome,
		Local:          p.Local,
		MonitoriaID:    p.MonitoriaID,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send e-mail")
		return err
	}

	logger.Info().Msg("e-mail sent")
	return nil
}
