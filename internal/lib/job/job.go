// Package job runs background work on Asynq (Redis). The API enqueues
// e-mail notification tasks; the worker started with the server sends them.
package job

import (
	"context"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/deppfellow/monitoria-backend/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// monitoriaMailer is the part of the e-mail client the handlers use.
type monitoriaMailer interface {
	SendMonitoriaAssignedEmail(ctx context.Context, m email.MonitoriaEmail) error
	SendMonitoriaDeactivatedEmail(ctx context.Context, m email.MonitoriaEmail) error
}

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	mailer monitoriaMailer
	logger *zerolog.Logger
}

// NewJobService builds the Asynq client and worker on cfg.Redis. Workers are
// shared between queues by weight: critical 6, default 3, low 1.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers wires the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMonitoriaAssigned, j.handleMonitoriaAssignedTask)
	mux.HandleFunc(TaskMonitoriaDeactivated, j.handleMonitoriaDeactivatedTask)
	return mux
}

// Start launches the worker in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.mux())
}

// Enqueue implements the service layer's task queue.
func (j *JobService) Enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Msg("task enqueued")
	return nil
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close asynq client")
	}
}
