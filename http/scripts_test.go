package http_test

import (
	"strings"
	"testing"

	kvdrophttp "github.com/sagarc03/kvdrop/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderShellScript(t *testing.T) {
	script, err := kvdrophttp.RenderShellScript("drop.example.org", "tok-123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))
	assert.Contains(t, script, "DOMAIN='drop.example.org'")
	assert.Contains(t, script, "TOKEN='tok-123'")
	assert.Contains(t, script, `Authorization: Bearer ${TOKEN}`)
	assert.Contains(t, script, `--data-urlencode "b64=${BASE64_TEXT}"`)
	assert.Contains(t, script, `"https://${DOMAIN}/${FILENAME}"`)
	assert.Contains(t, script, "Please specify a file")
	assert.Contains(t, script, "File not found")
}

func TestRenderShellScript_QuotesToken(t *testing.T) {
	script, err := kvdrophttp.RenderShellScript("drop.example.org", "it's $(whoami)")
	require.NoError(t, err)

	assert.Contains(t, script, `TOKEN='it'\''s $(whoami)'`)
}

func TestRenderBatchScript(t *testing.T) {
	script, err := kvdrophttp.RenderBatchScript("drop.example.org", "tok-123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "@echo off"))
	assert.Contains(t, script, `set "DOMAIN=drop.example.org"`)
	assert.Contains(t, script, `set "TOKEN=tok-123"`)
	assert.Contains(t, script, `Authorization: Bearer %TOKEN%`)
	assert.Contains(t, script, `"https://%DOMAIN%/%FILENAME%"`)
}

func TestRenderBatchScript_EscapesToken(t *testing.T) {
	script, err := kvdrophttp.RenderBatchScript("drop.example.org", `50%"off`)
	require.NoError(t, err)

	assert.Contains(t, script, `set "TOKEN=50%%off"`)
}

func TestRenderScript_InvalidHost(t *testing.T) {
	hosts := []string{"", "evil.com;reboot", "a b", "$(id)", "-leading.dash", "host/path"}

	for _, host := range hosts {
		_, err := kvdrophttp.RenderShellScript(host, "t")
		assert.ErrorIs(t, err, kvdrophttp.ErrInvalidHost, host)

		_, err = kvdrophttp.RenderBatchScript(host, "t")
		assert.ErrorIs(t, err, kvdrophttp.ErrInvalidHost, host)
	}
}

func TestIsValidScriptHost(t *testing.T) {
	valid := []string{"localhost", "drop.example.org", "10.0.0.1", "[::1]", "[2001:db8::1]", "a"}
	for _, host := range valid {
		assert.True(t, kvdrophttp.IsValidScriptHost(host), host)
	}

	invalid := []string{"", "::1", "host:8080", "ex ample.com", "example.com.", strings.Repeat("a", 254)}
	for _, host := range invalid {
		assert.False(t, kvdrophttp.IsValidScriptHost(host), host)
	}
}

func TestRenderScript_Kinds(t *testing.T) {
	sh, err := kvdrophttp.RenderScript(kvdrophttp.ScriptShell, "localhost", "t")
	require.NoError(t, err)
	assert.Contains(t, sh, "#!/bin/sh")

	bat, err := kvdrophttp.RenderScript(kvdrophttp.ScriptBatch, "localhost", "t")
	require.NoError(t, err)
	assert.Contains(t, bat, "@echo off")

	_, err = kvdrophttp.RenderScript("ps1", "localhost", "t")
	assert.Error(t, err)

	assert.Equal(t, "update.sh", kvdrophttp.ScriptShell.Filename())
	assert.Equal(t, "update.bat", kvdrophttp.ScriptBatch.Filename())
}
