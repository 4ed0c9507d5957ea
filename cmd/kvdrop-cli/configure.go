package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/kvdrop/clientcli"
	"github.com/spf13/cobra"
)

// connectionCheckKey is fetched to verify a new profile. It should not
// exist, so a healthy server with a valid token answers 404.
const connectionCheckKey = ".kvdrop-cli-check"

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage saved servers",
	Long: `Manage the servers saved in the profile file.

Each profile pairs a kvdrop endpoint with its shared token. Pick one
per command with --profile or KVDROP_PROFILE; otherwise the default
profile is used.

Profiles are stored in ~/.kvdrop/config.yaml unless --config or
KVDROP_CLI_CONFIG points elsewhere.`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles (* marks the default)",
	RunE:  runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a server, or replace a saved one",
	Long: `Prompt for an endpoint and token and save them as a profile.

Before saving, the token is tried against the server. The first
profile saved becomes the default.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Use a profile when --profile is not given",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one profile (the default if no name is given)",
	Long:  `Show one profile. Tokens are masked unless --show-secrets is set.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd, configureAddCmd, configureRemoveCmd,
		configureSetDefaultCmd, configureShowCmd)

	for _, c := range []*cobra.Command{configureListCmd, configureShowCmd} {
		c.Flags().BoolVar(&showSecrets, "show-secrets", false, "print tokens in full")
	}
}

// openProfiles reads the profile file. With mustExist unset a missing file
// is an empty list.
func openProfiles(mustExist bool) (*clientcli.Profiles, error) {
	ps, err := clientcli.ReadProfiles(profilePath())
	if err != nil && (mustExist || !errors.Is(err, os.ErrNotExist)) {
		return nil, err
	}
	return ps, nil
}

func writeProfiles(ps *clientcli.Profiles) error {
	if err := ps.Write(profilePath()); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

// confirm asks a yes/no question; anything but yes is no.
func confirm(label string) bool {
	_, err := (&promptui.Prompt{Label: label, IsConfirm: true}).Run()
	return err == nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	ps, err := openProfiles(false)
	if err != nil {
		return err
	}

	if len(ps.List) == 0 {
		fmt.Println("No profiles saved. Create one with 'kvdrop-cli configure add <name>'.")
		return nil
	}

	return getFormatter().FormatProfileList(os.Stdout, ps.List, ps.DefaultName(), showSecrets)
}

func runConfigureAdd(_ *cobra.Command, args []string) error {
	name := args[0]

	ps, err := openProfiles(false)
	if err != nil {
		return err
	}

	_, lookupErr := ps.Lookup(name)
	if lookupErr == nil && !confirm(fmt.Sprintf("Profile '%s' exists. Replace it", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	p, err := promptProfile(name)
	if err != nil {
		return handlePromptError(err)
	}

	makeDefault := len(ps.List) == 0 || ps.DefaultName() == name || confirm("Make this the default profile")

	fmt.Print("Checking server... ")
	if checkErr := checkServer(p); checkErr != nil {
		fmt.Printf("failed: %v\n", checkErr)
		if !confirm("Save anyway") {
			fmt.Println("Cancelled.")
			return nil
		}
	} else {
		fmt.Println("ok")
	}

	verb := "added"
	if ps.Put(p) {
		verb = "updated"
	}
	if makeDefault {
		if err := ps.SetDefault(name); err != nil {
			return err
		}
	}

	if err := writeProfiles(ps); err != nil {
		return err
	}

	fmt.Printf("Profile '%s' %s.\n", name, verb)
	if makeDefault {
		fmt.Println("It is now the default.")
	}
	return nil
}

// promptProfile asks for the endpoint and token of profile name.
func promptProfile(name string) (clientcli.Profile, error) {
	endpointURL, err := (&promptui.Prompt{
		Label:    "Endpoint URL",
		Default:  clientcli.DefaultEndpoint,
		Validate: validateEndpoint,
	}).Run()
	if err != nil {
		return clientcli.Profile{}, err
	}

	tokenVal, err := (&promptui.Prompt{
		Label: "Token",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return clientcli.ErrTokenRequired
			}
			return nil
		},
	}).Run()
	if err != nil {
		return clientcli.Profile{}, err
	}

	return clientcli.Profile{
		Name:     name,
		Endpoint: strings.TrimSuffix(endpointURL, "/"),
		Token:    strings.TrimSpace(tokenVal),
	}, nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	ps, err := openProfiles(true)
	if err != nil {
		return err
	}
	if _, err := ps.Lookup(name); err != nil {
		return err
	}

	if !confirm(fmt.Sprintf("Remove profile '%s'", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := ps.Remove(name); err != nil {
		return err
	}
	if err := writeProfiles(ps); err != nil {
		return err
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	ps, err := openProfiles(true)
	if err != nil {
		return err
	}
	if err := ps.SetDefault(args[0]); err != nil {
		return err
	}
	if err := writeProfiles(ps); err != nil {
		return err
	}

	fmt.Printf("Default profile is now '%s'.\n", args[0])
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	ps, err := openProfiles(true)
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	p, err := ps.Lookup(name)
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileShow(os.Stdout, *p, p.Name == ps.DefaultName(), showSecrets)
}

func validateEndpoint(input string) error {
	if input == "" {
		return errors.New("endpoint URL is required")
	}
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

// checkServer fetches connectionCheckKey with the profile's token. A 404
// means the token was accepted; a 403 means it was not.
func checkServer(p clientcli.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := clientcli.New(&clientcli.Config{Endpoint: p.Endpoint, Token: p.Token},
		clientcli.WithTimeout(5*time.Second))
	if err != nil {
		return err
	}

	_, body, err := client.Download(ctx, clientcli.DownloadOptions{Key: connectionCheckKey, LocalPath: "-"})
	switch {
	case err == nil:
		return body.Close()
	case errors.Is(err, clientcli.ErrNotFound):
		return nil
	case errors.Is(err, clientcli.ErrForbidden):
		return errors.New("server rejected the token")
	default:
		return fmt.Errorf("could not reach server: %w", err)
	}
}

// handlePromptError turns a Ctrl-C or Ctrl-D at a prompt into a quiet exit.
func handlePromptError(err error) error {
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		fmt.Println("\nCancelled.")
		os.Exit(0)
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrEOF):
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
