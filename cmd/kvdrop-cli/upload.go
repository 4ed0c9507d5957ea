package main

import (
	"os"

	"github.com/sagarc03/kvdrop/clientcli"
	"github.com/spf13/cobra"
)

var uploadRecursive bool

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [key]",
	Short: "Upload files to the server",
	Long: `Upload files to the server.

Each file is sent base64-encoded, the same way the generated update
scripts send it. Keys are lowercased by the server. Without a key the
local path is used.

Examples:
  kvdrop-cli upload ./notes.txt
  kvdrop-cli upload ./notes.txt docs/notes.txt
  kvdrop-cli upload -r ./photos backup/photos`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directory recursively")
}

func runUpload(cmd *cobra.Command, args []string) error {
	opts := clientcli.UploadOptions{
		LocalPath: args[0],
		Recursive: uploadRecursive,
	}
	if len(args) > 1 {
		opts.Key = args[1]
	}

	client, err := getClient()
	if err != nil {
		return handleError(os.Stderr, err)
	}

	results, err := client.Upload(cmd.Context(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return nil
}
