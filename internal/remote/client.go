// ABOUTME: HTTP JSON client for the remote launcher service
// ABOUTME: One method per collection and operation; failures normalized into Result values

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// DefaultTimeout bounds a single round trip when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4096

// Empty is the payload of calls that return no data.
type Empty struct{}

// Client talks to the remote service rooted at baseURL (for example
// http://localhost:8080/api).
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	online atomic.Bool

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client. It starts offline until FetchState succeeds.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "remote")
	return c
}

// IsOnline reports whether the most recent FetchState succeeded.
func (c *Client) IsOnline() bool {
	return c.online.Load()
}

// SetToken replaces the unlock token sent with each request. An empty token
// stops sending the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current unlock token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FetchState downloads the whole snapshot and recomputes the online flag.
func (c *Client) FetchState(ctx context.Context) Result[model.Snapshot] {
	res := checked(ctx, c, http.MethodGet, "/state", nil, validSnapshot)
	c.online.Store(res.OK())
	if !res.OK() {
		c.logger.Debug("state fetch failed", "error", res.Err)
	}
	return res
}

// SaveFullState replaces the remote snapshot with snap.
func (c *Client) SaveFullState(ctx context.Context, snap model.Snapshot) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodPost, "/state", snap, nil))
}

// ListApps fetches the app collection.
func (c *Client) ListApps(ctx context.Context) Result[[]model.AppShortcut] {
	return checked(ctx, c, http.MethodGet, "/apps", nil, validList(validApp))
}

// CreateApp creates an app; the result carries the server-assigned id.
func (c *Client) CreateApp(ctx context.Context, a model.AppShortcut) Result[model.AppShortcut] {
	return checked(ctx, c, http.MethodPost, "/apps", a, validApp)
}

// UpdateApp patches an app and returns the server's version.
func (c *Client) UpdateApp(ctx context.Context, id string, p model.AppPatch) Result[model.AppShortcut] {
	return checked(ctx, c, http.MethodPut, "/apps/"+url.PathEscape(id), p, validApp)
}

// DeleteApp deletes an app.
func (c *Client) DeleteApp(ctx context.Context, id string) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodDelete, "/apps/"+url.PathEscape(id), nil, nil))
}

// ListBooks fetches the library.
func (c *Client) ListBooks(ctx context.Context) Result[[]model.BookEntry] {
	return checked(ctx, c, http.MethodGet, "/books", nil, validList(validBook))
}

// CreateBook creates a book; the result carries the server-assigned id.
func (c *Client) CreateBook(ctx context.Context, b model.BookEntry) Result[model.BookEntry] {
	return checked(ctx, c, http.MethodPost, "/books", b, validBook)
}

// UpdateBook patches a book and returns the server's version.
func (c *Client) UpdateBook(ctx context.Context, id string, p model.BookPatch) Result[model.BookEntry] {
	return checked(ctx, c, http.MethodPut, "/books/"+url.PathEscape(id), p, validBook)
}

// DeleteBook deletes a book.
func (c *Client) DeleteBook(ctx context.Context, id string) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil))
}

// ListSecrets fetches the vault.
func (c *Client) ListSecrets(ctx context.Context) Result[[]model.SecretEntry] {
	return checked(ctx, c, http.MethodGet, "/secrets", nil, validList(validSecret))
}

// CreateSecret creates a vault entry.
func (c *Client) CreateSecret(ctx context.Context, e model.SecretEntry) Result[model.SecretEntry] {
	return checked(ctx, c, http.MethodPost, "/secrets", e, validSecret)
}

// UpdateSecret patches a vault entry.
func (c *Client) UpdateSecret(ctx context.Context, id string, p model.SecretPatch) Result[model.SecretEntry] {
	return checked(ctx, c, http.MethodPut, "/secrets/"+url.PathEscape(id), p, validSecret)
}

// DeleteSecret deletes a vault entry.
func (c *Client) DeleteSecret(ctx context.Context, id string) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodDelete, "/secrets/"+url.PathEscape(id), nil, nil))
}

// ListNotes fetches the notes.
func (c *Client) ListNotes(ctx context.Context) Result[[]model.Note] {
	return checked(ctx, c, http.MethodGet, "/notes", nil, validList(validNote))
}

// CreateNote creates a note; the result carries the server-assigned id.
func (c *Client) CreateNote(ctx context.Context, n model.Note) Result[model.Note] {
	return checked(ctx, c, http.MethodPost, "/notes", n, validNote)
}

// UpdateNote patches a note and returns the server's version.
func (c *Client) UpdateNote(ctx context.Context, id string, p model.NotePatch) Result[model.Note] {
	return checked(ctx, c, http.MethodPut, "/notes/"+url.PathEscape(id), p, validNote)
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil))
}

// GetSettings fetches the settings.
func (c *Client) GetSettings(ctx context.Context) Result[model.Settings] {
	return call[model.Settings](ctx, c, http.MethodGet, "/settings", nil)
}

// UpdateSettings patches the settings and returns the server's version.
func (c *Client) UpdateSettings(ctx context.Context, p model.SettingsPatch) Result[model.Settings] {
	return call[model.Settings](ctx, c, http.MethodPut, "/settings", p)
}

// VerifyLockCode asks the service whether code unlocks the launcher. A valid
// answer carrying a token replaces the client's current token.
func (c *Client) VerifyLockCode(ctx context.Context, code string) Result[model.LockResponse] {
	var out model.LockResponse
	if err := c.do(ctx, http.MethodPost, "/settings/lock", model.LockRequest{Code: code}, &out); err != nil {
		return failure[model.LockResponse](err)
	}
	if out.Valid && out.Token != "" {
		c.SetToken(out.Token)
	}
	return success(out)
}

// Open asks the service to launch a target.
func (c *Client) Open(ctx context.Context, req model.OpenRequest) Result[Empty] {
	return wrap(Empty{}, c.do(ctx, http.MethodPost, "/open", req, nil))
}

// Upload sends a file as multipart field "file" and returns its id and URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) Result[model.UploadResponse] {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return failure[model.UploadResponse](fmt.Errorf("creating form file: %w", err))
	}
	if _, err := io.Copy(part, r); err != nil {
		return failure[model.UploadResponse](fmt.Errorf("reading upload: %w", err))
	}
	if err := mw.Close(); err != nil {
		return failure[model.UploadResponse](fmt.Errorf("finishing form: %w", err))
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &body)
	if err != nil {
		return failure[model.UploadResponse](err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out model.UploadResponse
	if err := c.send(req, &out); err != nil {
		return failure[model.UploadResponse](err)
	}
	if err := validUpload(out); err != nil {
		return failure[model.UploadResponse](invalidPayload(req.Method, "/upload", err))
	}
	return success(out)
}

// FileURL returns the absolute URL of an uploaded file.
func (c *Client) FileURL(id string) string {
	return c.baseURL + "/files/" + url.PathEscape(id)
}

func call[T any](ctx context.Context, c *Client, method, path string, in any) Result[T] {
	var out T
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return failure[T](err)
	}
	return success(out)
}

// checked is call followed by a shape check of the decoded payload. A 2xx
// body that fails the check is a rejection, never a success.
func checked[T any](ctx context.Context, c *Client, method, path string, in any, check func(T) error) Result[T] {
	res := call[T](ctx, c, method, path, in)
	if !res.OK() {
		return res
	}
	if err := check(res.Data); err != nil {
		c.logger.Warn("malformed payload rejected", "method", method, "path", path, "error", err)
		return failure[T](invalidPayload(method, path, err))
	}
	return res
}

func invalidPayload(method, path string, err error) error {
	return fmt.Errorf("%w: %s %s: invalid payload: %v", model.ErrRemoteRejected, method, path, err)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", model.ErrNetworkUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", model.ErrNetworkUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: %s", model.ErrRemoteRejected, req.Method, req.URL.Path, errorMessage(resp))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s %s: empty response", model.ErrRemoteRejected, req.Method, req.URL.Path)
		}
		return fmt.Errorf("%w: %s %s: decoding response: %v", model.ErrRemoteRejected, req.Method, req.URL.Path, err)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%w: %s %s: null response", model.ErrRemoteRejected, req.Method, req.URL.Path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: decoding response: %v", model.ErrRemoteRejected, req.Method, req.URL.Path, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling
// back to the status line.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
