package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/kvdrop"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <key>",
	Short: "Print or save one item from the backend",
	Long: `Read one item directly from the configured backend. The key is
normalized the same way the server normalizes request paths.

Examples:
  kvdrop get notes.txt
  kvdrop get config/settings.yaml -o settings.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getOutput string

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	db, err := openBackend(ctx, cfg.Backend, false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	service := kvdrop.NewService(db.GetStore())

	key := kvdrop.NormalizeKey(args[0])
	value, err := service.Get(ctx, key)
	if err != nil {
		return err
	}

	if getOutput == "" {
		_, err = cmd.OutOrStdout().Write(value)
		return err
	}

	if err := os.WriteFile(getOutput, value, 0o644); err != nil { //nolint:gosec // user-chosen output file
		return fmt.Errorf("write %s: %w", getOutput, err)
	}
	return nil
}
