// Package api binds every healthhub REST endpoint to a Go method. Methods
// only build request descriptors; transport, auth and envelope handling
// live in the client package.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/healthhub-dev/healthhub/internal/client"
)

// DefaultRecommendLimit is used when a recommendation limit is not positive
const DefaultRecommendLimit = 5

// Doer sends a request descriptor and returns the envelope data
type Doer interface {
	Do(ctx context.Context, req client.Request) (json.RawMessage, error)
}

// API is the flat endpoint collection
type API struct {
	doer         Doer
	chatEndpoint string
}

// New creates an API. chatEndpoint is the path used by HealthChat and
// defaults to /health/consult when empty.
func New(doer Doer, chatEndpoint string) *API {
	if chatEndpoint == "" {
		chatEndpoint = "/health/consult"
	}
	return &API{doer: doer, chatEndpoint: chatEndpoint}
}

// Decode unmarshals envelope data into T
func Decode[T any](data json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode response: %w", err)
	}
	return v, nil
}

func (a *API) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return a.doer.Do(ctx, client.Request{Method: "GET", Path: path, Query: params})
}

func (a *API) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return a.doer.Do(ctx, client.Request{Method: "POST", Path: path, Body: payload})
}

func (a *API) put(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return a.doer.Do(ctx, client.Request{Method: "PUT", Path: path, Body: payload})
}

func (a *API) delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return a.doer.Do(ctx, client.Request{Method: "DELETE", Path: path, Query: params})
}

// itemPath interpolates an id into a resource path
func itemPath(resource, id string, suffix ...string) string {
	p := resource + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func limitParams(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
