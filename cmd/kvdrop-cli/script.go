package main

import (
	"io"
	"os"

	"github.com/sagarc03/kvdrop/clientcli"
	"github.com/spf13/cobra"
)

var (
	scriptOutput string
	scriptStdout bool
)

var scriptCmd = &cobra.Command{
	Use:   "script <bat|sh>",
	Short: "Fetch a generated update script from the server",
	Long: `Fetch the update.bat or update.sh script the server generates for
its own host. The script embeds the token, so keep it private.

Examples:
  kvdrop-cli script sh
  kvdrop-cli script bat -o C:\tools\update.bat
  kvdrop-cli script sh --stdout`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bat", "sh"},
	RunE:      runScript,
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "output file path (default: update.<kind>)")
	scriptCmd.Flags().BoolVar(&scriptStdout, "stdout", false, "write to stdout")
}

func runScript(cmd *cobra.Command, args []string) error {
	localPath := scriptOutput
	if scriptStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return handleError(os.Stderr, err)
	}

	result, reader, err := client.Script(cmd.Context(), clientcli.ScriptOptions{
		Kind:      args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if reader != nil {
		defer func() { _ = reader.Close() }()
		_, err := io.Copy(os.Stdout, reader)
		return err
	}

	return getFormatter().FormatScript(os.Stdout, result)
}
