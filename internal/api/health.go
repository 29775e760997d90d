package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// HealthConsult asks a question and waits for the whole answer
func (a *API) HealthConsult(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, "/health/consult", payload)
}

// HealthChat is HealthConsult against the configurable AI endpoint
func (a *API) HealthChat(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, a.chatEndpoint, payload)
}

func (a *API) GetConsultHistory(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, "/health/consult/history", params)
}

func (a *API) ClearConsultHistory(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.delete(ctx, "/health/consult/history", params)
}

func (a *API) AddHealthRecord(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, "/health/records", payload)
}

func (a *API) GetHealthRecords(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, "/health/records", params)
}
