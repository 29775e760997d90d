package client

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

	"github.com/rs/zerolog"

	"github.com/healthhub-dev/healthhub/internal/session"
)

// Timeout is the ceiling applied to every conventional request
const Timeout = 10 * time.Second

// Request describes one conventional API call. Body is JSON encoded unless
// it is an io.Reader, which is sent as is with the Content-Type from Header.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// ExpiryHandler is notified when the server reports an expired session
type ExpiryHandler interface {
	SessionExpired(ctx context.Context)
}

// Client represents an HTTP client for the healthhub API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	expiry     ExpiryHandler
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithExpiryHandler sets the handler notified on CodeNotLoggedIn
func WithExpiryHandler(h ExpiryHandler) Option {
	return func(c *Client) { c.expiry = h }
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new API client rooted at baseURL (for example
// http://localhost:8080/api)
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		session: sess,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and returns the envelope's data field
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.authorize(httpReq); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.String()).
		Msg("Sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("path", req.Path).Msg("Request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("path", req.Path).Msg("Failed to read response")
		return nil, err
	}

	c.logger.Debug().
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Received response")

	data, err := Unwrap(resp.StatusCode, body)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", req.Path).Msg("API error")
		if errors.Is(err, ErrSessionExpired) && c.expiry != nil {
			c.expiry.SessionExpired(ctx)
		}
		return nil, err
	}

	return data, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.resolve(req.Path)
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var body io.Reader
	jsonBody := false
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
		jsonBody = true
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if jsonBody {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	// Caller headers replace defaults such as the JSON content type
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	return httpReq, nil
}

// resolve joins path onto the base URL with exactly one slash. Absolute
// URLs, such as an AI endpoint hosted elsewhere, are used as is.
func (c *Client) resolve(path string) string {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// authorize attaches the bearer token and user id from the session
func (c *Client) authorize(req *http.Request) error {
	if c.session == nil {
		return nil
	}

	return ApplyAuth(c.session, req.Header, c.logger)
}

// ApplyAuth sets Authorization and userId on h from the session. A
// malformed userInfo blob is logged and otherwise ignored.
func ApplyAuth(s *session.Session, h http.Header, logger zerolog.Logger) error {
	token, err := s.Token()
	if err != nil {
		return err
	}
	if token != "" {
		h.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := s.ResolveUserID()
	if err != nil {
		return err
	}
	switch res.Status {
	case session.UserIDFound:
		h.Set("userId", res.ID)
	case session.UserIDMalformed:
		logger.Debug().Err(res.Err).Msg("Ignoring unreadable userInfo")
	}

	return nil
}
