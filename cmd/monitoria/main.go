package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "monitoria",
	Short: "Monitoria management API",
	Long: `Backend for managing teaching-assistant sessions (monitorias).

Configuration is read from MONITORIA_* environment variables and an
optional .env file in the working directory.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
