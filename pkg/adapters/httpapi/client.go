// Package httpapi implements core.API over HTTP+JSON.
//
// Every response is classified before the caller sees it:
//   - transport failures (dial, timeout, truncated body) become *core.NetworkError
//   - non-2xx statuses become *core.HTTPError
//   - 2xx bodies carrying an "error" field become *core.ApplicationError
//
// Health and Init only look at the status code; any 2xx body counts as success.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notesctl/pkg/core"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// Config holds the configuration for the HTTP adapter.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client  // defaults to a client with Timeout
	Timeout    time.Duration // used only when HTTPClient is nil
	UserAgent  string
	Logger     *slog.Logger
}

// Client implements core.API against a notes service.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	mu         sync.Mutex
	requests   int
	failures   int
	lastStatus int
}

// NewClient creates a new HTTP notes client.
// The base URL must be absolute (scheme and host); a trailing slash is ignored.
func NewClient(config Config) (*Client, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", config.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "notesctl"
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Health implements core.API.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return c.checkStatus(resp)
}

// List implements core.API.
func (c *Client) List(ctx context.Context) ([]core.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}

	var notes []core.Note
	if err := c.decodeResponse(resp, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

// Create implements core.API.
func (c *Client) Create(ctx context.Context, text string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/add", map[string]string{"text": text})
	if err != nil {
		return err
	}
	return c.decodeResponse(resp, nil)
}

// Delete implements core.API.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/delete/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return err
	}
	return c.decodeResponse(resp, nil)
}

// Init implements core.API.
func (c *Client) Init(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/init", nil)
	if err != nil {
		return err
	}
	return c.checkStatus(resp)
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("request", "op", op)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(0, true)
		return nil, &core.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// checkStatus drains the body and only classifies by status code.
func (c *Client) checkStatus(resp *http.Response) error {
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(resp.StatusCode, true)
		return &core.HTTPError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}
	c.record(resp.StatusCode, false)
	return nil
}

// decodeResponse classifies the response and decodes a 2xx body into target.
func (c *Client) decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()
	op := resp.Request.Method + " " + resp.Request.URL.Path

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.record(resp.StatusCode, true)
		return &core.NetworkError{Op: op, Err: err}
	}

	appErr := errorField(data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(resp.StatusCode, true)
		return &core.HTTPError{Status: resp.StatusCode, StatusText: statusText(resp), Message: appErr}
	}
	if appErr != "" {
		c.record(resp.StatusCode, true)
		return &core.ApplicationError{Message: appErr}
	}
	c.record(resp.StatusCode, false)

	if target != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// errorField extracts the "error" string of a JSON object body, if any.
func errorField(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}

func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) record(status int, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	if failed {
		c.failures++
	}
	c.lastStatus = status
}

var _ core.API = (*Client)(nil)
