package keybackend

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// TokenConfig holds configuration for the shared auth token.
type TokenConfig struct {
	Token     string `mapstructure:"token"`      // Inline token from config
	TokenFile string `mapstructure:"token_file"` // Path to a file containing the token
}

// ResolveToken returns the effective token. The file takes precedence over
// the inline value when both are set.
func ResolveToken(cfg TokenConfig) (string, error) {
	if cfg.TokenFile != "" {
		return LoadTokenFromFile(cfg.TokenFile)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DefaultTokenBytes is the entropy of generated tokens.
const DefaultTokenBytes = 32

// GenerateToken returns nBytes of crypto/rand entropy as unpadded URL-safe
// base64.
func GenerateToken(nBytes int) (string, error) {
	if nBytes < 16 {
		return "", fmt.Errorf("generate token: need at least 16 bytes, got %d", nBytes)
	}

	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
