package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the backend schema",
	Long: `Create the items table (sqlite, postgres) or bucket (s3) and validate
it. Running migrate on an existing schema is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	db, err := openBackend(cmd.Context(), cfg.Backend, true)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	slog.Info("migration complete", "type", cfg.Backend.Type, "table", cfg.Backend.Table)
	return nil
}
