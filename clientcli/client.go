package clientcli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/kvdrop"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a kvdrop server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	resolved, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:     &resolved,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload uploads file(s) to the server.
// For recursive uploads, walks the directory and keys each file by its
// path relative to LocalPath, under Key as a prefix.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	key := opts.Key
	if key == "" {
		key = NormalizeLocalToRemotePath(opts.LocalPath)
	}

	if opts.Recursive {
		return c.uploadRecursive(ctx, opts.LocalPath, key)
	}

	result, err := c.uploadSingle(ctx, opts.LocalPath, key)
	if err != nil {
		return nil, err
	}
	return []UploadResult{result}, nil
}

func (c *Client) uploadRecursive(ctx context.Context, baseDir, prefix string) ([]UploadResult, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	}

	if !info.IsDir() {
		result, uploadErr := c.uploadSingle(ctx, baseDir, prefix)
		if uploadErr != nil {
			return nil, uploadErr
		}
		return []UploadResult{result}, nil
	}

	var results []UploadResult
	prefix = strings.Trim(prefix, "/")

	walkErr := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, fileErr error) error {
		if fileErr != nil {
			return fileErr
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(baseDir, path)
		if relErr != nil {
			results = append(results, UploadResult{
				LocalPath: path,
				Err:       fmt.Errorf("calculate relative path: %w", relErr),
			})
			return nil
		}

		key := filepath.ToSlash(relPath)
		if prefix != "" {
			key = prefix + "/" + key
		}

		result, uploadErr := c.uploadSingle(ctx, path, key)
		if uploadErr != nil {
			result = UploadResult{
				LocalPath: path,
				Key:       kvdrop.NormalizeKey(key),
				Err:       uploadErr,
			}
		}
		results = append(results, result)
		return nil
	})

	if walkErr != nil {
		return results, fmt.Errorf("walk directory: %w", walkErr)
	}

	return results, nil
}

// uploadSingle posts one file as base64 form content, the way the
// generated client scripts do.
func (c *Client) uploadSingle(ctx context.Context, localPath, key string) (UploadResult, error) {
	key = kvdrop.NormalizeKey(key)
	if !kvdrop.IsValidKey(key) {
		return UploadResult{}, fmt.Errorf("upload %q: %w", key, kvdrop.ErrInvalidInput)
	}

	data, err := os.ReadFile(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}

	form := url.Values{}
	form.Set("b64", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.keyURL(key), strings.NewReader(form.Encode()))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, parseServerError(resp.StatusCode, body)
	}

	return UploadResult{
		LocalPath: localPath,
		Key:       key,
		Size:      int64(len(data)),
	}, nil
}

// Download fetches an item from the server.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.Key == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyKey)
	}
	key := kvdrop.NormalizeKey(opts.Key)

	resp, err := c.get(ctx, c.keyURL(key))
	if err != nil {
		return nil, nil, err
	}

	result := &DownloadResult{
		Key:         key,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Base(filepath.FromSlash(key))
	}
	result.LocalPath = localPath

	written, err := writeFile(localPath, resp.Body)
	if err != nil {
		return nil, nil, err
	}

	result.Size = written
	return result, nil, nil
}

// Script fetches a generated client script (kind "bat" or "sh") for the
// configured server. LocalPath follows the same rules as Download.
func (c *Client) Script(ctx context.Context, opts ScriptOptions) (*ScriptResult, io.ReadCloser, error) {
	if opts.Kind != "bat" && opts.Kind != "sh" {
		return nil, nil, fmt.Errorf("script %q: %w", opts.Kind, ErrInvalidScriptKind)
	}

	resp, err := c.get(ctx, c.config.Endpoint+"/config/update."+opts.Kind)
	if err != nil {
		return nil, nil, err
	}

	result := &ScriptResult{
		Kind: opts.Kind,
		Size: resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = "update." + opts.Kind
	}
	result.LocalPath = localPath

	written, err := writeFile(localPath, resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if opts.Kind == "sh" {
		//#nosec G302 -- the shell script is meant to be executed
		if err := os.Chmod(localPath, 0o750); err != nil {
			return nil, nil, fmt.Errorf("chmod script: %w", err)
		}
	}

	result.Size = written
	return result, nil, nil
}

// get performs an authorized GET and returns the response when it is a 200.
// The caller owns the response body.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, parseServerError(resp.StatusCode, body)
	}

	return resp, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
}

// keyURL escapes each key segment so names with spaces or "#" survive.
func (c *Client) keyURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.config.Endpoint + "/" + strings.Join(segments, "/")
}

// writeFile copies body into path, creating parent directories, and closes body.
func writeFile(path string, body io.ReadCloser) (int64, error) {
	defer func() { _ = body.Close() }()

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("create directory: %w", err)
		}
	}

	file, err := os.Create(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(file, body)
	if err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("write file: %w", err)
	}

	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close file: %w", err)
	}

	return written, nil
}

// NormalizeLocalToRemotePath converts a local path to a clean key.
// It handles:
//   - Leading "./" is stripped (./foo/bar.txt -> foo/bar.txt)
//   - Leading "/" is stripped (/abs/path/file.txt -> abs/path/file.txt)
//   - Parent traversal is resolved (../sibling/file.txt -> sibling/file.txt)
//   - Backslashes are converted to forward slashes (Windows)
func NormalizeLocalToRemotePath(localPath string) string {
	path := filepath.ToSlash(localPath)
	path = filepath.ToSlash(filepath.Clean(path))
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")

	for strings.HasPrefix(path, "../") {
		path = strings.TrimPrefix(path, "../")
	}

	if path == ".." || path == "." {
		return ""
	}

	return path
}

func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the key does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrForbidden is returned when the token is missing or wrong (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrBadRequest is returned for invalid keys or empty content (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
