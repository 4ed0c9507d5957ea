package http

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// ScriptKind names a generated client script.
type ScriptKind string

const (
	ScriptBatch ScriptKind = "bat"
	ScriptShell ScriptKind = "sh"
)

// Filename is the download name of the script.
func (k ScriptKind) Filename() string {
	return "update." + string(k)
}

var scriptFuncs = template.FuncMap{
	"shquote":  shellQuote,
	"batquote": batchEscape,
}

var shellScript = template.Must(template.New("update.sh").Funcs(scriptFuncs).Parse(`#!/bin/sh
set -e
DOMAIN={{shquote .Host}}
TOKEN={{shquote .Token}}

if [ -z "$1" ]; then
  echo "Please specify a file"
  exit 1
fi

FILENAME="$1"

if [ ! -f "$FILENAME" ]; then
  echo "File not found: $FILENAME"
  exit 1
fi

BASE64_TEXT=$(base64 < "$FILENAME" | tr -d '\n')

curl -fsS -H "Authorization: Bearer ${TOKEN}" \
  --data-urlencode "b64=${BASE64_TEXT}" \
  "https://${DOMAIN}/${FILENAME}"

echo
echo "Update successful"
`))

var batchScript = template.Must(template.New("update.bat").Funcs(scriptFuncs).Parse(`@echo off
chcp 65001 >nul
setlocal

set "DOMAIN={{batquote .Host}}"
set "TOKEN={{batquote .Token}}"

if "%~1"=="" (
  echo Please specify a file
  pause
  exit /b 1
)

set "FILENAME=%~nx1"

if not exist "%~1" (
  echo File not found: %~1
  pause
  exit /b 1
)

powershell -NoProfile -Command "[Convert]::ToBase64String([IO.File]::ReadAllBytes('%~f1')) | Out-File -NoNewline -Encoding ascii 'kvdrop_upload.b64'"
if %ERRORLEVEL% neq 0 (
  echo Failed to read file
  pause
  exit /b 1
)

set /p BASE64_TEXT=<kvdrop_upload.b64
del kvdrop_upload.b64

curl -fsS -H "Authorization: Bearer %TOKEN%" --data-urlencode "b64=%BASE64_TEXT%" "https://%DOMAIN%/%FILENAME%"
if %ERRORLEVEL% neq 0 (
  echo Upload failed
  pause
  exit /b 1
)

echo.
echo Update successful
timeout /t 3 >nul
exit /b 0
`))

// Hostnames, IPv4 and bracketed IPv6 literals.
var validHost = regexp.MustCompile(`^(\[[0-9A-Fa-f:.]+\]|[A-Za-z0-9]([A-Za-z0-9.-]*[A-Za-z0-9])?)$`)

// IsValidScriptHost reports whether host is safe to embed in a script.
func IsValidScriptHost(host string) bool {
	return len(host) <= 253 && validHost.MatchString(host)
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// batchEscape escapes s for use inside set "VAR=...".
func batchEscape(s string) string {
	r := strings.NewReplacer("%", "%%", `"`, "", "\r", "", "\n", "")
	return r.Replace(s)
}

type scriptData struct {
	Host  string
	Token string
}

func renderScript(tmpl *template.Template, host, token string) (string, error) {
	if !IsValidScriptHost(host) {
		return "", fmt.Errorf("render %s: %q: %w", tmpl.Name(), host, ErrInvalidHost)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, scriptData{Host: host, Token: token}); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

// RenderShellScript returns a POSIX shell script that uploads one file to
// https://host/<file> with token as bearer credential.
func RenderShellScript(host, token string) (string, error) {
	return renderScript(shellScript, host, token)
}

// RenderBatchScript returns the Windows batch equivalent of RenderShellScript.
func RenderBatchScript(host, token string) (string, error) {
	return renderScript(batchScript, host, token)
}

// RenderScript dispatches on kind.
func RenderScript(kind ScriptKind, host, token string) (string, error) {
	switch kind {
	case ScriptShell:
		return RenderShellScript(host, token)
	case ScriptBatch:
		return RenderBatchScript(host, token)
	default:
		return "", fmt.Errorf("unknown script kind %q", kind)
	}
}
