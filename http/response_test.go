package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/kvdrop"
	kvdrophttp "github.com/sagarc03/kvdrop/http"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", kvdrop.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"wrapped not found", fmt.Errorf("get item x: %w", kvdrop.ErrNotFound), http.StatusNotFound, "Not Found"},
		{"unauthorized", kvdrop.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
		{"invalid input", kvdrop.ErrInvalidInput, http.StatusBadRequest, "Invalid key"},
		{"no file", kvdrophttp.ErrNoFile, http.StatusBadRequest, "No file uploaded"},
		{"no content", kvdrophttp.ErrNoContent, http.StatusBadRequest, "No content provided"},
		{"invalid base64", kvdrophttp.ErrInvalidBase64, http.StatusBadRequest, "Invalid base64 content"},
		{"invalid host", kvdrophttp.ErrInvalidHost, http.StatusBadRequest, "Invalid host"},
		{"method", kvdrophttp.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
		{"too large", fmt.Errorf("parse: %w", &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge, "Request body too large"},
		{"store not bound", kvdrop.ErrStoreNotBound, http.StatusInternalServerError, "Error: store not bound"},
		{"unexpected", errors.New("some unexpected error"), http.StatusInternalServerError, "Error: some unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			kvdrophttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}
