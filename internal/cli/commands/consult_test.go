package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthhub-dev/healthhub/internal/client"
	"github.com/healthhub-dev/healthhub/internal/consult"
	"github.com/healthhub-dev/healthhub/internal/session"
)

func sse(w http.ResponseWriter, frames string) {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Write([]byte(frames))
}

func TestRunConsultStream_PrintsUntilDone(t *testing.T) {
	var gotQuery map[string][]string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health/consult/stream", r.URL.Path)
		gotQuery = r.URL.Query()
		sse(w, ": keep-alive\n\ndata: Drink \n\ndata: {\"content\":\"water\"}\n\nevent: done\ndata:\n\ndata: ignored\n\n")
	}, map[string]string{session.KeyToken: "t", session.KeyUserID: "7"})

	err := runConsultStream(context.Background(), env.Env, "how much water?", "s-1")
	require.NoError(t, err)

	assert.Equal(t, "Drink water\n", env.out.String())
	assert.Contains(t, env.errOut.String(), "Session: s-1")
	assert.Equal(t, []string{"how much water?"}, gotQuery["question"])
	assert.Equal(t, []string{"7"}, gotQuery["userId"])
	assert.Equal(t, []string{"s-1"}, gotQuery["sessionId"])
}

func TestRunConsultStream_DoneMarker(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		sse(w, "data: one\n\ndata: [DONE]\n\ndata: two\n\n")
	}, nil)

	require.NoError(t, runConsultStream(context.Background(), env.Env, "q", ""))
	assert.Equal(t, "one\n", env.out.String())
}

func TestRunConsultStream_ErrorEvent(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		sse(w, "event: error\ndata: model unavailable\n\n")
	}, nil)

	err := runConsultStream(context.Background(), env.Env, "q", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestRunConsultStream_ExpiredSession(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":40100,"message":"not logged in","data":null}`))
	}, map[string]string{session.KeyToken: "t", session.KeyUserID: "7", session.KeyAdminToken: "a"})

	err := runConsultStream(context.Background(), env.Env, "q", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrSessionExpired))

	assert.Empty(t, stored(t, env.store, session.KeyToken))
	assert.Empty(t, stored(t, env.store, session.KeyUserID))
	assert.Equal(t, "a", stored(t, env.store, session.KeyAdminToken))
	assert.Contains(t, env.errOut.String(), "healthhub login")
}

func TestRunConsultStream_NotAStream(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}, nil)

	err := runConsultStream(context.Background(), env.Env, "q", "")
	var httpErr *client.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestRunConsultStream_BlankQuestion(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)

	err := runConsultStream(context.Background(), env.Env, "   ", "")
	assert.ErrorIs(t, err, consult.ErrEmptyQuestion)
}

func TestStreamText(t *testing.T) {
	assert.Equal(t, "plain", streamText("plain"))
	assert.Equal(t, "hi", streamText(`{"content":"hi"}`))
	assert.Equal(t, "d", streamText(`{"delta":"d"}`))
	assert.Equal(t, `{"other":1}`, streamText(`{"other":1}`))
	assert.Equal(t, "{broken", streamText("{broken"))
}

func TestQuestionPayload(t *testing.T) {
	body, err := questionPayload("sleep tips", "s-9", &payloadFlags{sets: []string{"lang=en"}})
	require.NoError(t, err)

	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"sleep tips","sessionId":"s-9","lang":"en"}`, string(encoded))

	_, err = questionPayload(" ", "", &payloadFlags{})
	assert.ErrorIs(t, err, consult.ErrEmptyQuestion)
}

func TestConsultAsk_PostsQuestion(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		reply(w, `{"answer":"8 hours"}`)
	}, nil)

	err := runData(context.Background(), env.Env, []string{"sleep?"},
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			body, err := questionPayload(args[0], "", &payloadFlags{})
			if err != nil {
				return nil, err
			}
			return env.API.HealthConsult(ctx, body)
		})
	require.NoError(t, err)

	assert.Equal(t, "/api/health/consult", gotPath)
	assert.Equal(t, "sleep?", gotBody["question"])
	assert.Contains(t, env.out.String(), "8 hours")
}
