package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/google/uuid"
)

// ErrUnexpectedStatus is returned for non-2xx responses without an envelope.
var ErrUnexpectedStatus = errors.New("unexpected status code")

const maxErrorBody = 4096

// Client is a stateless pass-through to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logging.GetGlobal(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(p string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path.Clean("/"+p), "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs a request and returns the raw response.
func (c *Client) do(ctx context.Context, method, p string, query url.Values, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(p, query), body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("api request", "method", method, "path", p, "request_id", requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", p, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("api: %s %s: %w", method, p, err)
	}
	return resp, nil
}

// call performs a request and decodes the envelope.
// A decoded envelope is returned even for 4xx/5xx so handled failures keep
// the backend message; bodies without an envelope become errors.
func (c *Client) call(ctx context.Context, method, p string, query url.Values, payload any) (envelope, error) {
	resp, err := c.do(ctx, method, p, query, payload)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("api: read body: %w", err)
	}

	env, decodeErr := decodeEnvelope(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && !env.Success && env.Message != "" {
			return env, nil
		}
		return envelope{}, fmt.Errorf("api: %s %s: %w %d: %s", method, p, ErrUnexpectedStatus, resp.StatusCode, truncate(body))
	}
	if decodeErr != nil {
		return envelope{}, fmt.Errorf("api: %s %s: %w", method, p, decodeErr)
	}
	return env, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

// List fetches one page of a resource.
func List[T any](ctx context.Context, c *Client, resource string, params ListParams) (ListResult[T], error) {
	env, err := c.call(ctx, http.MethodGet, resource, params.Values(), nil)
	if err != nil {
		return ListResult[T]{}, err
	}
	return decodePage[T](env)
}

// Get fetches a single record.
func Get[T any](ctx context.Context, c *Client, resource, id string) (Result[T], error) {
	env, err := c.call(ctx, http.MethodGet, path.Join(resource, url.PathEscape(id)), nil, nil)
	if err != nil {
		return Result[T]{}, err
	}
	return decodeResult[T](env)
}

// Create posts a new record.
func Create[T any](ctx context.Context, c *Client, resource string, payload any) (Result[T], error) {
	env, err := c.call(ctx, http.MethodPost, resource, nil, payload)
	if err != nil {
		return Result[T]{}, err
	}
	return decodeResult[T](env)
}

// Update replaces a record.
func Update[T any](ctx context.Context, c *Client, resource, id string, payload any) (Result[T], error) {
	env, err := c.call(ctx, http.MethodPut, path.Join(resource, url.PathEscape(id)), nil, payload)
	if err != nil {
		return Result[T]{}, err
	}
	return decodeResult[T](env)
}

// Delete removes a record.
func Delete(ctx context.Context, c *Client, resource, id string) (Result[Empty], error) {
	env, err := c.call(ctx, http.MethodDelete, path.Join(resource, url.PathEscape(id)), nil, nil)
	if err != nil {
		return Result[Empty]{}, err
	}
	return decodeResult[Empty](env)
}

// Action invokes a record action such as ban or toggle.
func Action(ctx context.Context, c *Client, resource, id, action string, payload any) (Result[Empty], error) {
	p := path.Join(resource, url.PathEscape(id), url.PathEscape(action))
	env, err := c.call(ctx, http.MethodPost, p, nil, payload)
	if err != nil {
		return Result[Empty]{}, err
	}
	return decodeResult[Empty](env)
}

// Download fetches a file. A JSON body is treated as an envelope and only
// a failed one is accepted.
func Download(ctx context.Context, c *Client, p string) (BlobResult, error) {
	resp, err := c.do(ctx, http.MethodGet, p, nil, nil)
	if err != nil {
		return BlobResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return BlobResult{}, fmt.Errorf("api: read download: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" {
		env, err := decodeEnvelope(body)
		if err != nil {
			return BlobResult{}, fmt.Errorf("api: download %s: %w", p, err)
		}
		if env.Success {
			return BlobResult{}, fmt.Errorf("api: download %s: %w: expected file, got json", p, ErrMalformedResponse)
		}
		return Fail[Blob](env.Message), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return BlobResult{}, fmt.Errorf("api: download %s: %w %d", p, ErrUnexpectedStatus, resp.StatusCode)
	}

	return Ok(Blob{
		Name:        filenameFromDisposition(resp.Header.Get("Content-Disposition"), path.Base(p)),
		ContentType: contentType,
		Data:        body,
	}), nil
}

func filenameFromDisposition(header, fallback string) string {
	if header != "" {
		if _, params, err := mime.ParseMediaType(header); err == nil {
			if name := params["filename"]; name != "" {
				return path.Base(name)
			}
		}
	}
	return fallback
}
