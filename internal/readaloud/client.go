package readaloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// API defines the backend operations the panel uses.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	GetConfig(ctx context.Context) (Settings, error)
	SaveConfig(ctx context.Context, settings Settings) (Envelope, error)
	Status(ctx context.Context) (*StatusResponse, error)
	Act(ctx context.Context, req ActionRequest) (ActionResponse, error)
	StartService(ctx context.Context) (Envelope, error)
	StopService(ctx context.Context) (Envelope, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ErrNotSuccess is returned when /api/status answers without the success discriminator.
var ErrNotSuccess = errors.New("status not successful")

// Client talks to the ReadAloud HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

const (
	defaultAPIBase   = "127.0.0.1:5000"
	defaultUserAgent = "readaloud-panel/0.1"
	requestTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given base address (host:port or URL).
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised API base address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// GetConfig fetches the full configuration record.
func (c *Client) GetConfig(ctx context.Context) (Settings, error) {
	if c == nil {
		return Settings{}, fmt.Errorf("client is nil")
	}
	var payload Settings
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &payload, false); err != nil {
		return Settings{}, err
	}
	return payload, nil
}

// SaveConfig replaces the server configuration with settings.
func (c *Client) SaveConfig(ctx context.Context, settings Settings) (Envelope, error) {
	if c == nil {
		return Envelope{}, fmt.Errorf("client is nil")
	}
	var payload Envelope
	if err := c.do(ctx, http.MethodPost, "/api/config", settings, &payload, true); err != nil {
		return Envelope{}, err
	}
	return payload, nil
}

// Status fetches connectivity, engine availability and service state.
// A reply without the success discriminator is reported as ErrNotSuccess.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &payload, false); err != nil {
		return nil, err
	}
	if !payload.OK() {
		return nil, fmt.Errorf("%w: %q", ErrNotSuccess, payload.Status)
	}
	return &payload, nil
}

// Act posts a TTS action.
func (c *Client) Act(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	if c == nil {
		return ActionResponse{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(req.Action) == "" {
		return ActionResponse{}, fmt.Errorf("action required")
	}
	var payload ActionResponse
	if err := c.do(ctx, http.MethodPost, "/api/tts", req, &payload, true); err != nil {
		return ActionResponse{}, err
	}
	return payload, nil
}

// StartService asks the backend to start the inference service.
func (c *Client) StartService(ctx context.Context) (Envelope, error) {
	return c.serviceCall(ctx, "/api/service/start")
}

// StopService asks the backend to stop the inference service.
func (c *Client) StopService(ctx context.Context) (Envelope, error) {
	return c.serviceCall(ctx, "/api/service/stop")
}

func (c *Client) serviceCall(ctx context.Context, path string) (Envelope, error) {
	if c == nil {
		return Envelope{}, fmt.Errorf("client is nil")
	}
	var payload Envelope
	if err := c.do(ctx, http.MethodPost, path, nil, &payload, true); err != nil {
		return Envelope{}, err
	}
	return payload, nil
}

// do performs one round-trip. When envelopeOnError is set, 4xx/5xx replies
// are still decoded into dest so the caller can surface the server message.
func (c *Client) do(ctx context.Context, method, path string, body, dest any, envelopeOnError bool) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if envelopeOnError && dest != nil && json.Unmarshal(payload, dest) == nil {
			return nil
		}
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", apiBase)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
