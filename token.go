package kvdrop

import "crypto/subtle"

// TokenMatches reports whether presented equals the configured shared
// secret. The comparison runs in constant time for equal-length inputs.
// An empty configured secret never matches.
func TokenMatches(presented, configured string) bool {
	if configured == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}
