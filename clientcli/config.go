package clientcli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is used when no source names a server.
const DefaultEndpoint = "http://localhost:8787"

// Environment variables consulted by Resolve.
const (
	EnvEndpoint   = "KVDROP_ENDPOINT"
	EnvToken      = "KVDROP_TOKEN"
	EnvProfile    = "KVDROP_PROFILE"
	EnvConfigPath = "KVDROP_CLI_CONFIG"
)

// Profile is one saved server and the token it accepts.
type Profile struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
}

// Profiles is the content of the profile file.
type Profiles struct {
	List []Profile `yaml:"profiles"`
}

// DefaultConfigPath returns ~/.kvdrop/config.yaml, or "" without a home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kvdrop", "config.yaml")
}

// ReadProfiles parses the profile file at path. When the file does not exist
// it returns an empty, usable list and an error matching os.ErrNotExist.
func ReadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return &Profiles{}, fmt.Errorf("read profiles: %w", err)
	}

	var ps Profiles
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return &ps, nil
}

// Write stores the list at path owner-only, since it holds tokens.
func (ps *Profiles) Write(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

func (ps *Profiles) index(name string) int {
	for i := range ps.List {
		if ps.List[i].Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the named profile. An empty name selects the profile marked
// default, falling back to the first one.
func (ps *Profiles) Lookup(name string) (*Profile, error) {
	if len(ps.List) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		for i := range ps.List {
			if ps.List[i].Default {
				return &ps.List[i], nil
			}
		}
		return &ps.List[0], nil
	}

	if i := ps.index(name); i >= 0 {
		return &ps.List[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// DefaultName is the name Lookup("") resolves to, or "".
func (ps *Profiles) DefaultName() string {
	p, err := ps.Lookup("")
	if err != nil {
		return ""
	}
	return p.Name
}

// Put adds p, or replaces the profile of the same name in place. The
// replaced profile keeps its default mark. It reports whether one existed.
func (ps *Profiles) Put(p Profile) bool {
	i := ps.index(p.Name)
	if i < 0 {
		ps.List = append(ps.List, p)
		return false
	}
	p.Default = p.Default || ps.List[i].Default
	ps.List[i] = p
	return true
}

// Remove deletes the named profile.
func (ps *Profiles) Remove(name string) error {
	i := ps.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	ps.List = append(ps.List[:i], ps.List[i+1:]...)
	return nil
}

// SetDefault moves the default mark to the named profile.
func (ps *Profiles) SetDefault(name string) error {
	if ps.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	for i := range ps.List {
		ps.List[i].Default = ps.List[i].Name == name
	}
	return nil
}

// Config is the server a Client talks to.
type Config struct {
	Endpoint string
	Token    string
}

// Overrides are settings given for a single invocation, typically flags.
// Empty fields defer to the environment and then the profile file.
type Overrides struct {
	ConfigPath string
	Profile    string
	Endpoint   string
	Token      string
}

// Resolve picks the endpoint and token for one invocation. Each field takes
// the first non-empty value from o, the environment, the selected profile,
// then the built-in default. The profile file may be absent unless
// o.ConfigPath or a profile name asks for it.
func Resolve(o Overrides) (*Config, error) {
	path := firstSet(o.ConfigPath, os.Getenv(EnvConfigPath), DefaultConfigPath())
	name := firstSet(o.Profile, os.Getenv(EnvProfile))

	var saved Profile
	if path != "" {
		ps, err := ReadProfiles(path)
		switch {
		case err == nil:
			p, lookupErr := ps.Lookup(name)
			if lookupErr == nil {
				saved = *p
			} else if name != "" || !errors.Is(lookupErr, ErrNoProfiles) {
				return nil, lookupErr
			}
		case o.ConfigPath != "" || name != "" || !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	return &Config{
		Endpoint: firstSet(o.Endpoint, os.Getenv(EnvEndpoint), saved.Endpoint, DefaultEndpoint),
		Token:    firstSet(o.Token, os.Getenv(EnvToken), saved.Token),
	}, nil
}

// normalized applies the default endpoint, drops a trailing slash and
// requires a token, since every route a client calls is authenticated.
func (c Config) normalized() (Config, error) {
	if c.Token == "" {
		return c, ErrTokenRequired
	}
	c.Endpoint = strings.TrimSuffix(firstSet(c.Endpoint, DefaultEndpoint), "/")
	return c, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
