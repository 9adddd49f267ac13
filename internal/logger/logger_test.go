package logger

import (
	"testing"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerUsesConfiguredLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	logger := NewLogger(cfg)

	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerServiceWithoutLicenseIsDisabled(t *testing.T) {
	service := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, service.GetApplication())
	service.Shutdown()
}

func TestNilLoggerServiceHasNoApplication(t *testing.T) {
	var service *LoggerService
	assert.Nil(t, service.GetApplication())
}

func TestGetPgxTraceLogLevelMatchesTracelog(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, tracelog.LogLevel(GetPgxTraceLogLevel(zerolog.DebugLevel)))
	assert.Equal(t, tracelog.LogLevelError, tracelog.LogLevel(GetPgxTraceLogLevel(zerolog.ErrorLevel)))
	assert.Equal(t, tracelog.LogLevelNone, tracelog.LogLevel(GetPgxTraceLogLevel(zerolog.Disabled)))
}
