// Package keybackend resolves the shared auth token from configuration.
package keybackend

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LoadTokenFromFile reads the token from a file. The token is the first
// line that is neither empty nor a comment:
//
//	# kvdrop token, rotate monthly
//	f3Jk9x...
//
// Surrounding whitespace is trimmed. Returns ErrNoToken if no such line exists.
func LoadTokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}

	return "", fmt.Errorf("parse token file %s: %w", path, ErrNoToken)
}
