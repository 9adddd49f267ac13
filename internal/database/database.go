// Package database owns the PostgreSQL connection pool.
//
// It builds the pgxpool from config, applies pool limits and wires query
// tracing: New Relic segments when APM is on, SQL logging through zerolog in
// the local environment, and a slow query log everywhere.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/config"
	loggerConfig "github.com/deppfellow/monitoria-backend/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// multiTracer fans a pgx query trace out to several tracers, since pgx only
// has one Tracer slot per connection config.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.QueryTracer); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.QueryTracer); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

type slowQueryStartKey struct{}

type slowQueryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer warns about queries slower than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (st *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryStartKey{}, slowQueryStart{sql: data.SQL, start: time.Now()})
}

func (st *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	started, ok := ctx.Value(slowQueryStartKey{}).(slowQueryStart)
	if !ok {
		return
	}
	if elapsed := time.Since(started.start); elapsed > st.threshold {
		st.log.Warn().
			Str("sql", started.sql).
			Dur("duration", elapsed).
			Dur("threshold", st.threshold).
			Err(data.Err).
			Msg("slow query")
	}
}

// DatabasePingTimeout is how long startup waits for the first ping, in seconds.
const DatabasePingTimeout = 10

// New creates the connection pool and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []any

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// Full SQL logging is only worth the noise when developing locally.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0].(pgx.QueryTracer)
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("connected to the database")

	return database, nil
}

func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
