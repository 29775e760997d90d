// Package consult opens the server-sent-events stream that delivers an AI
// health consultation incrementally.
package consult

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/healthhub-dev/healthhub/internal/session"
)

// DefaultEndpoint is used when no stream endpoint is configured
const DefaultEndpoint = "/api/health/consult/stream"

// ErrEmptyQuestion is returned before any network activity for a blank question
var ErrEmptyQuestion = errors.New("question must not be empty")

// Opener opens consult streams. It talks to net/http directly because the
// request client buffers a single JSON envelope per call.
type Opener struct {
	origin     string
	endpoint   string
	session    *session.Session
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewOpener creates an Opener. Relative endpoints are resolved against
// origin; an empty endpoint falls back to DefaultEndpoint.
func NewOpener(origin, endpoint string, sess *session.Session, logger zerolog.Logger) *Opener {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Opener{
		origin:   strings.TrimSuffix(origin, "/"),
		endpoint: endpoint,
		session:  sess,
		// No Timeout: a stream lives until the server ends it or ctx is cancelled
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// SetHTTPClient sets a custom HTTP client
func (o *Opener) SetHTTPClient(httpClient *http.Client) {
	o.httpClient = httpClient
}

// Base returns the absolute endpoint before query parameters are added
func (o *Opener) Base() string {
	lower := strings.ToLower(o.endpoint)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return o.endpoint
	}
	if strings.HasPrefix(o.endpoint, "/") {
		return o.origin + o.endpoint
	}
	return o.origin + "/" + o.endpoint
}

// BuildURL appends the question, userId and sessionId parameters to base,
// in that order, using & when base already has a query string
func BuildURL(base, question, userID, sessionID string) string {
	params := strings.Join([]string{
		"question=" + url.QueryEscape(question),
		"userId=" + url.QueryEscape(userID),
		"sessionId=" + url.QueryEscape(sessionID),
	}, "&")

	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + params
}

// Open starts a consult stream and returns the in-flight response. The
// caller owns resp.Body and cancels the stream through ctx. Non-2xx
// responses are returned as is, like a browser fetch.
func (o *Opener) Open(ctx context.Context, question, sessionID string) (*http.Response, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	userID := ""
	res, err := o.session.ResolveUserID()
	if err != nil {
		return nil, err
	}
	if res.Found() {
		userID = res.ID
	} else if res.Status == session.UserIDMalformed {
		o.logger.Debug().Err(res.Err).Msg("Ignoring unreadable userInfo")
	}

	target := BuildURL(o.Base(), question, userID, sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-store")

	token, err := o.session.Token()
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	if userID != "" {
		req.Header.Set("userId", userID)
	}

	o.logger.Debug().Str("url", target).Msg("Opening consult stream")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
