package e2e_test

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testToken = "e2e-token-0123456789"

var (
	binaries      = map[string]string{}
	binariesErr   error
	binariesOnce  sync.Once
	sharedTempDir string

	containerCleanup = func() {}
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "kvdrop-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	containerCleanup()
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// ServerConfig holds configuration for starting the kvdrop server.
type ServerConfig struct {
	Port        int
	BackendType string // sqlite, postgres, filesystem, memory
	DSN         string
	Table       string
	Token       string
}

// buildBinary compiles the named command under ./cmd once per test run.
func buildBinary(t *testing.T, name string) string {
	t.Helper()

	binariesOnce.Do(func() {
		root := getProjectRoot(t)
		for _, cmdName := range []string{"kvdrop", "kvdrop-cli"} {
			out := filepath.Join(sharedTempDir, cmdName)
			cmd := exec.Command("go", "build", "-o", out, "./cmd/"+cmdName)
			cmd.Dir = root
			if output, err := cmd.CombinedOutput(); err != nil {
				binariesErr = fmt.Errorf("build %s: %w\nOutput: %s", cmdName, err, output)
				return
			}
			binaries[cmdName] = out
		}
	})

	if binariesErr != nil {
		t.Fatalf("failed to build binaries: %v", binariesErr)
	}

	return binaries[name]
}

// getProjectRoot walks up from the working directory to the go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes a server config file and returns its path.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, `server:
  port: %d

backend:
  type: %s
  dsn: "%s"
`, cfg.Port, cfg.BackendType, cfg.DSN)

	if cfg.Table != "" {
		fmt.Fprintf(&sb, "  table: %s\n", cfg.Table)
	}
	if cfg.Token != "" {
		fmt.Fprintf(&sb, "\nauth:\n  token: %q\n", cfg.Token)
	}

	sb.WriteString("\nlog:\n  level: error\n")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(sb.String()), 0o600), "write config file")

	return configPath
}

// runKvdrop runs a one-shot kvdrop command against configPath.
func runKvdrop(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	args = append(args, "--config", configPath, "--env-file", filepath.Join(t.TempDir(), "none.env"))
	cmd := exec.Command(buildBinary(t, "kvdrop"), args...)
	cmd.Env = cleanEnv()
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// startServer migrates the backend, starts kvdrop serve and waits for it.
// Returns the base URL; the server is stopped on test cleanup.
func startServer(t *testing.T, cfg ServerConfig) (string, string) {
	t.Helper()

	if cfg.Port == 0 {
		cfg.Port = getOpenPort(t)
	}
	if cfg.Token == "" {
		cfg.Token = testToken
	}

	configPath := createConfigFile(t, cfg)

	output, err := runKvdrop(t, configPath, "migrate")
	require.NoError(t, err, "migrate: %s", output)

	cmd := exec.Command(buildBinary(t, "kvdrop"), "serve", "--config", configPath)
	cmd.Env = cleanEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Start(), "start server")

	t.Cleanup(func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	})

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(t, baseURL, 10*time.Second)

	return baseURL, configPath
}

// cleanEnv drops KVDROP_ variables from the parent so only the config file applies.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "KVDROP_") {
			env = append(env, kv)
		}
	}
	return env
}

// waitForServer polls the server until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close(), "close port")

	return port
}

// send performs a request with an optional bearer token and returns status and body.
func send(t *testing.T, method, target, token, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}
