package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kvdrophttp "github.com/sagarc03/kvdrop/http"
)

var scriptCmd = &cobra.Command{
	Use:   "script [flags] bat|sh",
	Short: "Render an upload script offline",
	Long: `Render the same upload script the server serves at
/config/update.bat or /config/update.sh, embedding the configured token.

Examples:
  kvdrop script sh --host drop.example.org > update.sh
  kvdrop script bat --host drop.example.org -o update.bat`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(kvdrophttp.ScriptBatch), string(kvdrophttp.ScriptShell)},
	RunE:      runScript,
}

var (
	scriptHost   string
	scriptOutput string
)

func init() {
	scriptCmd.Flags().StringVar(&scriptHost, "host", "", "public hostname clients upload to")
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "write to file instead of stdout")
	_ = scriptCmd.MarkFlagRequired("host")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	script, err := kvdrophttp.RenderScript(kvdrophttp.ScriptKind(args[0]), scriptHost, cfg.Auth.Token)
	if err != nil {
		return err
	}

	if scriptOutput == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), script)
		return err
	}

	if err := os.WriteFile(scriptOutput, []byte(script), 0o700); err != nil { //nolint:gosec // scripts are executable
		return fmt.Errorf("write %s: %w", scriptOutput, err)
	}
	return nil
}
