package keybackend

import "errors"

// ErrNoToken is returned when neither the inline token nor the token file
// yields a non-empty token.
var ErrNoToken = errors.New("no auth token configured")
