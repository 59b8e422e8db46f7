package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/logging"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Client project portal API",
	Long: `Client project portal API server.

Runs the HTTP API by default. Subcommands cover schema migration and
creating staff accounts from the shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		logging.Setup(cfg.LogLevel)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(pruneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens the configured database and migrates the schema.
func connect() error {
	if cfg.UsesPostgres() && cfg.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(database.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("database migrated")
	return nil
}

func closeDB() {
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}
}
