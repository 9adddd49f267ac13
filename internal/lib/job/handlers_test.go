package job

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/monitoria-backend/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	assigned    []email.MonitoriaEmail
	deactivated []email.MonitoriaEmail
	err         error
}

func (f *fakeMailer) SendMonitoriaAssignedEmail(_ context.Context, m email.MonitoriaEmail) error {
	f.assigned = append(f.assigned, m)
	return f.err
}

func (f *fakeMailer) SendMonitoriaDeactivatedEmail(_ context.Context, m email.MonitoriaEmail) error {
	f.deactivated = append(f.deactivated, m)
	return f.err
}

func newTestJobService(m *fakeMailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: m, logger: &logger}
}

func TestMonitoriaAssignedTaskRoundTrip(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, err := NewMonitoriaAssignedTask(MonitoriaEmailPayload{
		MonitoriaID:    3,
		To:             "ana@example.com",
		MonitorName:    "Ana",
		DisciplinaNome: "Cálculo I",
		Local:          "Sala 1",
	})
	require.NoError(t, err)
	assert.Equal(t, TaskMonitoriaAssigned, task.Type())

	require.NoError(t, j.mux().ProcessTask(context.Background(), task))

	require.Len(t, mailer.assigned, 1)
	assert.Empty(t, mailer.deactivated)
	assert.Equal(t, email.MonitoriaEmail{
		To:             "ana@example.com",
		MonitorName:    "Ana",
		DisciplinaNome: "Cálculo I",
		Local:          "Sala 1",
		MonitoriaID:    3,
	}, mailer.assigned[0])
}

func TestMonitoriaDeactivatedTaskRoutesToDeactivatedEmail(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, err := NewMonitoriaDeactivatedTask(MonitoriaEmailPayload{MonitoriaID: 9, To: "bia@example.com"})
	require.NoError(t, err)

	require.NoError(t, j.mux().ProcessTask(context.Background(), task))
	require.Len(t, mailer.deactivated, 1)
	assert.Equal(t, int64(9), mailer.deactivated[0].MonitoriaID)
}

func TestMonitoriaEmailTaskSendFailureIsRetried(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("resend down")}
	j := newTestJobService(mailer)

	task, err := NewMonitoriaAssignedTask(MonitoriaEmailPayload{To: "ana@example.com"})
	require.NoError(t, err)

	err = j.mux().ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestMonitoriaEmailTaskBadPayloadSkipsRetry(t *testing.T) {
	j := newTestJobService(&fakeMailer{})

	err := j.mux().ProcessTask(context.Background(), asynq.NewTask(TaskMonitoriaAssigned, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
