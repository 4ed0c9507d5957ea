package http

import "errors"

var (
	// ErrNoFile is returned when a multipart upload has no "file" part.
	ErrNoFile = errors.New("no file uploaded")
	// ErrNoContent is returned when a write carries neither text nor b64.
	ErrNoContent = errors.New("no content provided")
	// ErrInvalidBase64 is returned when the b64 parameter does not decode.
	ErrInvalidBase64 = errors.New("invalid base64 content")
	// ErrInvalidHost is returned when the request host cannot be embedded
	// in a generated script.
	ErrInvalidHost = errors.New("invalid host")
	// ErrMethodNotAllowed is returned for verbs a path does not support.
	ErrMethodNotAllowed = errors.New("method not allowed")
)
