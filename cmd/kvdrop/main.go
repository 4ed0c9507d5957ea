package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// skipConfig marks commands that run without a loaded config.
const skipConfig = "kvdrop/skip-config"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "kvdrop",
	Short:   "Token-protected file drop backed by a key-value store",
	Long: `kvdrop is a small HTTP file store. Clients holding the shared token
read and write files by path, and the server hands out upload scripts
for Windows and POSIX shells.

Items live in a pluggable backend: memory, sqlite, postgres, redis,
filesystem or s3.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			setupLogging("warn", false)
			return nil
		}

		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level, cfg.IsProduction())
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path(s), merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading config")
	rootCmd.PersistentFlags().String("backend", "", "backend type: memory, sqlite, postgres, redis, filesystem, s3 (default: sqlite, env: KVDROP_BACKEND_TYPE)")
	rootCmd.PersistentFlags().String("dsn", "", "backend DSN, redis URL or directory (default: kvdrop.db, env: KVDROP_BACKEND_DSN)")
	rootCmd.PersistentFlags().String("table", "", "items table for SQL backends (default: kvdrop_items, env: KVDROP_BACKEND_TABLE)")
	rootCmd.PersistentFlags().String("token-file", "", "file holding the auth token (env: KVDROP_AUTH_TOKEN_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: KVDROP_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
