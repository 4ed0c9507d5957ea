package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/kvdrop/keybackend"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a fresh random auth token",
	Long: `Print a random URL-safe token suitable for auth.token or a token
file. No config is read.

Example:
  kvdrop token > /etc/kvdrop/token`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runToken,
}

var tokenBytes int

func init() {
	tokenCmd.Flags().IntVar(&tokenBytes, "bytes", keybackend.DefaultTokenBytes, "random bytes of entropy (min 16)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	token, err := keybackend.GenerateToken(tokenBytes)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
