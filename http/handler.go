package http

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/kvdrop"
)

// multipartMemory is the part of an upload kept in memory before spilling
// to temp files.
const multipartMemory = 32 << 20

type Service interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// Token is the shared secret. An empty token rejects every credential.
	Token string
	CORS  CORSConfig
	// MaxUploadSize caps request bodies in bytes; 0 disables the cap.
	MaxUploadSize int64
}

// Handler serves the login pages, the generated scripts and item reads
// and writes.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
// A nil service, or one reporting Bound() == false, answers every request
// with 500.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

func (h *Handler) bound() bool {
	if h.service == nil {
		return false
	}
	if b, ok := h.service.(interface{ Bound() bool }); ok {
		return b.Bound()
	}
	return true
}

// Router returns the route table:
//
//	GET  /                   login form
//	POST /                   multipart upload (auth) or login submit
//	ANY  /config/update.bat  batch script (auth)
//	ANY  /config/update.sh   shell script (auth)
//	GET  /*                  read item (auth)
//	POST /*                  write item (auth)
//
// Anything else is 403 without a credential and 405 with one.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID, RequestLogger, Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Use(RequireStore(h.bound()), NormalizePath, LimitBody(h.config.MaxUploadSize))

	r.Get("/", h.handleLoginForm)
	r.Post("/", h.handleRootPost)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.config.Token))
		r.Handle("/config/update.bat", h.handleScript(ScriptBatch))
		r.Handle("/config/update.sh", h.handleScript(ScriptShell))
		r.Get("/*", h.handleGet)
		r.Post("/*", h.handlePut)
	})

	r.MethodNotAllowed(h.handleFallback(ErrMethodNotAllowed))
	r.NotFound(h.handleFallback(kvdrop.ErrNotFound))

	return r
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, http.StatusOK, "")
}

func (h *Handler) handleRootPost(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		h.handleUpload(w, r)
		return
	}
	h.handleLogin(w, r)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !Authorized(r, h.config.Token) {
		HandleError(w, kvdrop.ErrUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		HandleError(w, fmt.Errorf("parse upload: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		HandleError(w, ErrNoFile)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		HandleError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	// Uploads keep the client's file name as-is.
	if err := h.service.Put(r.Context(), header.Filename, content); err != nil {
		HandleError(w, err)
		return
	}

	slog.Debug("file uploaded", "key", header.Filename, "size", len(content))
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusFound)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		HandleError(w, fmt.Errorf("parse login form: %w", err))
		return
	}

	if !kvdrop.TokenMatches(r.PostForm.Get("token"), h.config.Token) {
		renderLogin(w, http.StatusForbidden, "Invalid token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    h.config.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	renderConfig(w, requestHostname(r))
}

func (h *Handler) handleScript(kind ScriptKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		script, err := RenderScript(kind, requestHostname(r), h.config.Token)
		if err != nil {
			HandleError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentTypeText)
		w.Header().Set("Content-Disposition", "attachment; filename="+kind.Filename())
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, script)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := kvdrop.NormalizeKey(r.URL.Path)

	value, err := h.service.Get(r.Context(), key)
	if err != nil {
		HandleError(w, err)
		return
	}

	contentType := contentTypeText
	if !utf8.Valid(value) {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(value)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	key := kvdrop.NormalizeKey(r.URL.Path)

	value, err := readContent(r)
	if err != nil {
		HandleError(w, err)
		return
	}

	if err := h.service.Put(r.Context(), key, value); err != nil {
		HandleError(w, err)
		return
	}

	writeText(w, http.StatusOK, "Updated")
}

// handleFallback serves unmatched routes: 403 without a credential,
// otherwise err.
func (h *Handler) handleFallback(err error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !Authorized(r, h.config.Token) {
			HandleError(w, kvdrop.ErrUnauthorized)
			return
		}
		HandleError(w, err)
	}
}

// readContent returns the value of a write: text wins over b64, and the
// query string wins over a form-encoded body.
func readContent(r *http.Request) ([]byte, error) {
	q := r.URL.Query()
	text, b64 := q.Get("text"), q.Get("b64")

	if text == "" && b64 == "" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		text, b64 = r.PostForm.Get("text"), r.PostForm.Get("b64")
	}

	switch {
	case text != "":
		return []byte(text), nil
	case b64 != "":
		return decodeBase64(b64)
	default:
		return nil, ErrNoContent
	}
}

// decodeBase64 decodes standard base64 leniently: spaces are read as '+'
// (a form-decoded '+'), ASCII whitespace is dropped and padding is optional.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	s = strings.TrimRight(s, "=")

	value, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase64, err)
	}
	return value, nil
}

// requestHostname returns the request host without its port. IPv6
// literals keep their brackets so the result can be used in a URL.
func requestHostname(r *http.Request) string {
	host := (&url.URL{Host: r.Host}).Hostname()
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}
