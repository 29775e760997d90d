package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/healthhub-dev/healthhub/internal/config"
	"github.com/healthhub-dev/healthhub/internal/session"
)

// testEnv is an Env wired to an httptest server and an in-memory store
type testEnv struct {
	*Env
	store  *session.MemoryStore
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(t *testing.T, handler http.HandlerFunc, values map[string]string) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Server: server.URL,
		Endpoints: config.EndpointsConfig{
			APIBase: "http://cdn.test",
			AI:      config.DefaultAIEndpoint,
			Stream:  config.DefaultStreamEndpoint,
		},
	}

	store := session.NewMemoryStore(values)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	env := newEnv(cfg, session.New(store), out, errOut, zerolog.Nop())

	return &testEnv{Env: env, store: store, out: out, errOut: errOut}
}

// reply writes a success envelope around data
func reply(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"code":0,"message":"ok","data":` + data + `}`))
}

func stored(t *testing.T, store session.Store, key string) string {
	t.Helper()
	v, err := store.Get(key)
	if err != nil {
		t.Fatalf("failed to read %s: %v", key, err)
	}
	return v
}
