package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/kvdrop"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// writeText writes a plain-text response.
func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(code)
	if _, err := io.WriteString(w, body); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// HandleError writes a plain-text response for err. Known errors map to
// fixed messages; anything else is a 500 that echoes the error text.
func HandleError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, kvdrop.ErrNotFound):
		writeText(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, kvdrop.ErrUnauthorized):
		writeText(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, ErrNoFile):
		writeText(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, ErrNoContent):
		writeText(w, http.StatusBadRequest, "No content provided")
	case errors.Is(err, ErrInvalidBase64):
		writeText(w, http.StatusBadRequest, "Invalid base64 content")
	case errors.Is(err, ErrInvalidHost):
		writeText(w, http.StatusBadRequest, "Invalid host")
	case errors.Is(err, kvdrop.ErrInvalidInput):
		writeText(w, http.StatusBadRequest, "Invalid key")
	case errors.Is(err, ErrMethodNotAllowed):
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
	case errors.As(err, &maxBytesErr):
		writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
	default:
		slog.Error("request error", "error", err)
		writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}

	slog.Debug("request rejected", "error", err)
}
