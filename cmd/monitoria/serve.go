package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/deppfellow/monitoria-backend/internal/database"
	"github.com/deppfellow/monitoria-backend/internal/handler"
	"github.com/deppfellow/monitoria-backend/internal/logger"
	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/repository"
	"github.com/deppfellow/monitoria-backend/internal/router"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/deppfellow/monitoria-backend/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background job worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}

func serve(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if migrateOnStart {
		if err := database.Migrate(ctx, &log, cfg); err != nil {
			loggerService.Shutdown()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}
	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	r := router.NewRouter(srv, handlers, middlewares)
	srv.SetupHTTPServer(r)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
