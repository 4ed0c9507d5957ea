package kvdrop

import (
	"strings"
	"unicode/utf8"
)

// MaxKeyLength is the longest key, in bytes, that IsValidKey accepts.
const MaxKeyLength = 1024

// NormalizeKey turns a request path into a store key by stripping one
// leading "/" and lowercasing the rest.
func NormalizeKey(p string) string {
	return strings.ToLower(strings.TrimPrefix(p, "/"))
}

// IsValidKey validates that a key can be handed to any Store implementation.
// It checks that the key:
//   - is not empty, "." or "/"
//   - is relative (does not start with "/") and does not end with "/"
//   - does not contain "..", "//" or a backslash
//   - is valid UTF-8 and at most MaxKeyLength bytes
//   - does not contain "." segments
//   - does not contain null bytes or other control characters
func IsValidKey(k string) bool {
	if k == "" || k == "/" || k == "." {
		return false
	}

	if len(k) > MaxKeyLength {
		return false
	}

	if k[0] == '/' || strings.HasSuffix(k, "/") {
		return false
	}

	if strings.Contains(k, "..") || strings.Contains(k, "//") || strings.Contains(k, `\`) {
		return false
	}

	if !utf8.ValidString(k) {
		return false
	}

	if strings.HasPrefix(k, "./") || strings.Contains(k, "/./") || strings.HasSuffix(k, "/.") {
		return false
	}

	for _, r := range k {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
