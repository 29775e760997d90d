package consult

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthhub-dev/healthhub/internal/session"
)

func newSession(values map[string]string) *session.Session {
	return session.New(session.NewMemoryStore(values))
}

func TestOpen_RejectsBlankQuestionWithoutNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	o := NewOpener(srv.URL, "", newSession(nil), zerolog.Nop())

	for _, q := range []string{"", "   ", "\t\n"} {
		resp, err := o.Open(context.Background(), q, "s1")
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, ErrEmptyQuestion), "question %q", q)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		question  string
		userID    string
		sessionID string
		want      string
	}{
		{
			name:     "no session id",
			base:     "http://h/api/health/consult/stream",
			question: "how much water?",
			userID:   "7",
			want:     "http://h/api/health/consult/stream?question=how+much+water%3F&userId=7&sessionId=",
		},
		{
			name:      "existing query string",
			base:      "http://h/stream?model=fast",
			question:  "sleep",
			sessionID: "abc",
			want:      "http://h/stream?model=fast&question=sleep&userId=&sessionId=abc",
		},
		{
			name:     "unicode question",
			base:     "/s",
			question: "血压",
			want:     "/s?question=%E8%A1%80%E5%8E%8B&userId=&sessionId=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.question, tt.userID, tt.sessionID))
		})
	}
}

func TestOpener_Base(t *testing.T) {
	assert.Equal(t, "http://o/api/health/consult/stream", NewOpener("http://o/", "", nil, zerolog.Nop()).Base())
	assert.Equal(t, "http://o/ai/stream", NewOpener("http://o", "ai/stream", nil, zerolog.Nop()).Base())
	assert.Equal(t, "https://ai.test/s?x=1", NewOpener("http://o", "https://ai.test/s?x=1", nil, zerolog.Nop()).Base())
}

func TestOpen_SendsParamsAndHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: hello\n\n")
	}))
	defer srv.Close()

	sess := newSession(map[string]string{
		session.KeyToken:    "tok",
		session.KeyUserInfo: `{"id":"u9"}`,
	})
	o := NewOpener(srv.URL, "/api/health/consult/stream", sess, zerolog.Nop())

	resp, err := o.Open(context.Background(), "am I healthy", "")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/health/consult/stream", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "am I healthy", q.Get("question"))
	assert.Equal(t, "u9", q.Get("userId"))
	v, ok := q["sessionId"]
	require.True(t, ok, "sessionId must be present")
	assert.Equal(t, []string{""}, v)

	assert.Equal(t, "text/event-stream", got.Header.Get("Accept"))
	assert.Equal(t, "no-store", got.Header.Get("Cache-Control"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "u9", got.Header.Get("userId"))

	r := NewReader(resp.Body)
	require.True(t, r.Next())
	assert.Equal(t, "hello", r.Event().Data)
}

func TestOpen_AnonymousOmitsAuthHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
	}))
	defer srv.Close()

	o := NewOpener(srv.URL, "", newSession(map[string]string{session.KeyUserInfo: "{bad"}), zerolog.Nop())
	resp, err := o.Open(context.Background(), "q", "s-1")
	require.NoError(t, err)
	resp.Body.Close()

	_, hasAuth := got.Header["Authorization"]
	assert.False(t, hasAuth)
	assert.Empty(t, got.Header.Get("userId"))
	assert.Equal(t, "", got.URL.Query().Get("userId"))
	assert.Equal(t, "s-1", got.URL.Query().Get("sessionId"))
}

func TestOpen_ReturnsNon2xxResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	resp, err := NewOpener(srv.URL, "", newSession(nil), zerolog.Nop()).Open(context.Background(), "q", "")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOpen_CancelStopsStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: first\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	resp, err := NewOpener(srv.URL, "", newSession(nil), zerolog.Nop()).Open(ctx, "q", "")
	require.NoError(t, err)
	defer resp.Body.Close()

	r := NewReader(resp.Body)
	require.True(t, r.Next())
	assert.Equal(t, "first", r.Event().Data)

	cancel()

	done := make(chan bool)
	go func() { done <- r.Next() }()
	select {
	case more := <-done:
		assert.False(t, more)
		assert.Error(t, r.Err())
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestOpen_TransportError(t *testing.T) {
	o := NewOpener("http://127.0.0.1:1", "", newSession(nil), zerolog.Nop())
	_, err := o.Open(context.Background(), "q", "")

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr))
}
