package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// CodeOK and CodeNotLoggedIn are the envelope codes with special meaning
const (
	CodeOK          = 0
	CodeNotLoggedIn = 40100
)

// DefaultErrorMessage is used when a failed envelope carries no message
const DefaultErrorMessage = "request failed"

// ErrSessionExpired matches any *APIError carrying CodeNotLoggedIn
var ErrSessionExpired = errors.New("session expired")

// Envelope is the wrapper every backend JSON response follows
type Envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a response whose envelope code is not CodeOK
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrSessionExpired) identify expired sessions
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.Code == CodeNotLoggedIn
}

// HTTPError is a non-2xx response that did not carry an envelope
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Body)
}

// Unwrap turns a raw response into the envelope's data or an error. It has
// no side effects; the caller decides what an expired session means.
func Unwrap(statusCode int, body []byte) (json.RawMessage, error) {
	env, ok := parseEnvelope(body)
	success := statusCode >= 200 && statusCode < 300

	if !ok {
		if !success {
			return nil, &HTTPError{StatusCode: statusCode, Body: string(body)}
		}
		return nil, &APIError{Code: -1, Message: DefaultErrorMessage}
	}

	if *env.Code != CodeOK {
		msg := env.Message
		if msg == "" {
			msg = DefaultErrorMessage
		}
		return nil, &APIError{Code: *env.Code, Message: msg}
	}

	if !success {
		// code 0 on an error status makes no sense; treat as transport failure
		return nil, &HTTPError{StatusCode: statusCode, Body: string(body)}
	}

	if len(env.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Data, nil
}

func parseEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Code == nil {
		return env, false
	}
	return env, true
}
