package main

import (
	"fmt"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/deppfellow/monitoria-backend/internal/database"
	"github.com/deppfellow/monitoria-backend/internal/logger"
	"github.com/spf13/cobra"
)

var migrateTarget int32

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Moves the database schema to the latest embedded migration.

Use --to to migrate to a specific version instead; --to 0 rolls every
migration back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		log := logger.NewLogger(cfg.Observability)
		if err := database.MigrateTo(cmd.Context(), &log, cfg, migrateTarget); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().Int32Var(&migrateTarget, "to", database.LatestVersion, "target schema version (-1 for latest)")
}
