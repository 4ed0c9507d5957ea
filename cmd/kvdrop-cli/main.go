package main

import (
	"io"
	"os"

	"github.com/sagarc03/kvdrop/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	token      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "kvdrop-cli",
	Version: version,
	Short:   "Client for kvdrop file drop servers",
	Long: `kvdrop-cli - client for a kvdrop server

Settings are resolved in this order, later wins:
  1. profile from the config file (default: ~/.kvdrop/config.yaml)
  2. KVDROP_ENDPOINT / KVDROP_TOKEN environment variables
  3. --endpoint / --token flags`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.kvdrop/config.yaml, env: KVDROP_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: KVDROP_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8787, env: KVDROP_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "auth token (env: KVDROP_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// profilePath is the profile file the configure commands edit.
func profilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv(clientcli.EnvConfigPath); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig resolves the endpoint and token from flags, env and the profile file.
func buildConfig() (*clientcli.Config, error) {
	return clientcli.Resolve(clientcli.Overrides{
		ConfigPath: cfgFile,
		Profile:    profile,
		Endpoint:   endpoint,
		Token:      token,
	})
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError formats err to w and returns it so the command exits non-zero.
func handleError(w io.Writer, err error) error {
	_ = getFormatter().FormatError(w, err)
	return err
}
