package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sagarc03/kvdrop"
)

// AuthCookieName is the cookie carrying the shared token after login.
const AuthCookieName = "auth_token"

// RequestIDHeader carries the per-request id on responses.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID assigns every request an xid and echoes it in X-Request-Id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger logs one line per request. Credentials are never logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// Recoverer turns a panic into a 500 "Error: <message>" response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(rec)
			}
			slog.Error("panic serving request", "panic", rec, "path", r.URL.Path)
			HandleError(w, fmt.Errorf("%v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}

// NormalizePath lowercases the request path before routing so keys and the
// script routes are matched case-insensitively.
func NormalizePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		r.URL.RawPath = strings.ToLower(r.URL.RawPath)
		next.ServeHTTP(w, r)
	})
}

// LimitBody caps request bodies at limit bytes. A limit of 0 disables it.
func LimitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStore answers every request with 500 when no store is bound.
func RequireStore(bound bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bound {
				HandleError(w, kvdrop.ErrStoreNotBound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Credentials returns the bearer token and the auth cookie value. A header
// without the "Bearer " prefix is taken as the token itself.
func Credentials(r *http.Request) (bearer, cookie string) {
	bearer = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if c, err := r.Cookie(AuthCookieName); err == nil {
		cookie = c.Value
	}
	return bearer, cookie
}

// Authorized reports whether either credential matches token.
func Authorized(r *http.Request, token string) bool {
	bearer, cookie := Credentials(r)
	return kvdrop.TokenMatches(bearer, token) || kvdrop.TokenMatches(cookie, token)
}

// RequireAuth rejects requests without a matching credential with 403.
func RequireAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorized(r, token) {
				HandleError(w, kvdrop.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
