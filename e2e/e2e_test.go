package e2e_test

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_SQLite runs the HTTP flow against the SQLite backend.
func TestE2E_SQLite(t *testing.T) {
	baseURL, _ := startServer(t, ServerConfig{
		BackendType: "sqlite",
		DSN:         filepath.Join(t.TempDir(), "kvdrop.db"),
	})

	runDropTests(t, baseURL)
}

// TestE2E_Postgres runs the HTTP flow against PostgreSQL.
func TestE2E_Postgres(t *testing.T) {
	baseURL, _ := startServer(t, ServerConfig{
		BackendType: "postgres",
		DSN:         getSharedPostgresDatabase(t),
		Table:       "e2e_items",
	})

	runDropTests(t, baseURL)
}

// TestE2E_Filesystem runs the HTTP flow against the filesystem backend.
func TestE2E_Filesystem(t *testing.T) {
	baseURL, _ := startServer(t, ServerConfig{
		BackendType: "filesystem",
		DSN:         t.TempDir(),
	})

	runDropTests(t, baseURL)
}

// runDropTests contains the shared request/response checks.
func runDropTests(t *testing.T, baseURL string) {
	t.Helper()

	t.Run("GET / serves the login form without auth", func(t *testing.T) {
		status, body := send(t, http.MethodGet, baseURL+"/", "", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<form")
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		status, body := send(t, http.MethodGet, baseURL+"/notes.txt", "wrong", "")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Unauthorized", body)
	})

	t.Run("text put then get", func(t *testing.T) {
		status, body := send(t, http.MethodPost, baseURL+"/Notes.txt", testToken, "text=hello+world")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Updated", body)

		status, body = send(t, http.MethodGet, baseURL+"/notes.txt", testToken, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "hello world", body)
	})

	t.Run("b64 put overwrites", func(t *testing.T) {
		form := url.Values{"b64": {base64.StdEncoding.EncodeToString([]byte("second"))}}
		status, _ := send(t, http.MethodPost, baseURL+"/notes.txt", testToken, form.Encode())
		require.Equal(t, http.StatusOK, status)

		_, body := send(t, http.MethodGet, baseURL+"/NOTES.TXT", testToken, "")
		assert.Equal(t, "second", body)
	})

	t.Run("missing content", func(t *testing.T) {
		status, body := send(t, http.MethodPost, baseURL+"/empty.txt", testToken, "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "No content provided", body)
	})

	t.Run("unknown key", func(t *testing.T) {
		status, body := send(t, http.MethodGet, baseURL+"/missing.txt", testToken, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Not Found", body)
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		status, _ := send(t, http.MethodPut, baseURL+"/notes.txt", testToken, "")
		assert.Equal(t, http.StatusMethodNotAllowed, status)
	})

	t.Run("shell script embeds host and token", func(t *testing.T) {
		status, body := send(t, http.MethodGet, baseURL+"/config/update.sh", testToken, "")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "localhost")
		assert.Contains(t, body, testToken)
	})
}

// TestE2E_PutGetCommands imports a file with kvdrop put and reads it back
// with kvdrop get, without a running server.
func TestE2E_PutGetCommands(t *testing.T) {
	configPath := createConfigFile(t, ServerConfig{
		Port:        getOpenPort(t),
		BackendType: "sqlite",
		DSN:         filepath.Join(t.TempDir(), "kvdrop.db"),
		Token:       testToken,
	})

	src := filepath.Join(t.TempDir(), "Report.TXT")
	require.NoError(t, os.WriteFile(src, []byte("quarterly numbers"), 0o600))

	output, err := runKvdrop(t, configPath, "migrate")
	require.NoError(t, err, output)

	output, err = runKvdrop(t, configPath, "put", "--dest", "docs", src)
	require.NoError(t, err, output)

	output, err = runKvdrop(t, configPath, "get", "docs/report.txt")
	require.NoError(t, err, output)
	assert.Contains(t, output, "quarterly numbers")
}

// TestE2E_ServeWithoutToken checks that the server refuses to start
// without a configured token.
func TestE2E_ServeWithoutToken(t *testing.T) {
	cfg := ServerConfig{
		Port:        getOpenPort(t),
		BackendType: "memory",
	}
	configPath := createConfigFile(t, cfg)

	output, err := runKvdrop(t, configPath, "serve")
	require.Error(t, err)
	assert.Contains(t, output, "token")
}

// TestE2E_ClientCLI drives a running server with kvdrop-cli.
func TestE2E_ClientCLI(t *testing.T) {
	baseURL, _ := startServer(t, ServerConfig{
		BackendType: "sqlite",
		DSN:         filepath.Join(t.TempDir(), "kvdrop.db"),
	})

	dir := t.TempDir()
	src := filepath.Join(dir, "upload.txt")
	require.NoError(t, os.WriteFile(src, []byte("from the cli"), 0o600))

	cli := func(args ...string) (string, error) {
		args = append(args,
			"--config", filepath.Join(dir, "cli.yaml"),
			"--endpoint", baseURL,
			"--token", testToken,
		)
		cmd := exec.Command(buildBinary(t, "kvdrop-cli"), args...)
		cmd.Env = cleanEnv()
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cli.yaml"), []byte("profiles: []\n"), 0o600))

	output, err := cli("upload", src, "cli/Upload.txt")
	require.NoError(t, err, output)
	assert.Contains(t, output, "cli/upload.txt")

	output, err = cli("download", "--stdout", "cli/upload.txt")
	require.NoError(t, err, output)
	assert.Equal(t, "from the cli", output)

	output, err = cli("script", "sh", "-o", filepath.Join(dir, "update.sh"))
	require.NoError(t, err, output)

	script, err := os.ReadFile(filepath.Join(dir, "update.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(script), testToken)
}
