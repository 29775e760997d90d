package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthhub-dev/healthhub/internal/session"
)

func TestRunLogin_User(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		reply(w, `{"token":"user-token","userInfo":{"id":7,"username":"amy"}}`)
	}, nil)

	err := runLogin(context.Background(), "amy", "secret", false, WithEnv(env.Env))
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/login", gotPath)
	assert.Equal(t, map[string]string{"username": "amy", "password": "secret"}, gotBody)

	assert.Equal(t, "user-token", stored(t, env.store, session.KeyToken))
	assert.Equal(t, "7", stored(t, env.store, session.KeyUserID))
	assert.JSONEq(t, `{"id":7,"username":"amy"}`, stored(t, env.store, session.KeyUserInfo))
	assert.Empty(t, stored(t, env.store, session.KeyAdminToken))
	assert.Contains(t, env.out.String(), "Login successful")
}

func TestRunLogin_AdminKeepsUserSession(t *testing.T) {
	var gotPath string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		reply(w, `{"token":"admin-token","admin":{"id":1}}`)
	}, map[string]string{session.KeyToken: "user-token"})

	err := runLogin(context.Background(), "root", "secret", true, WithEnv(env.Env))
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/admin/login", gotPath)
	assert.Equal(t, "admin-token", stored(t, env.store, session.KeyAdminToken))
	assert.Equal(t, "user-token", stored(t, env.store, session.KeyToken))
}

func TestRunLogin_PromptsForPassword(t *testing.T) {
	t.Setenv("HEALTHHUB_PASSWORD", "")

	var gotPassword string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotPassword = body["password"]
		reply(w, `{"token":"t"}`)
	}, nil)

	prompted := false
	err := runLogin(context.Background(), "amy", "", false,
		WithEnv(env.Env),
		WithPasswordPrompt(func(label string) (string, error) {
			prompted = true
			return "typed", nil
		}),
	)
	require.NoError(t, err)

	assert.True(t, prompted)
	assert.Equal(t, "typed", gotPassword)
}

func TestRunLogin_UsernameFromEnv(t *testing.T) {
	t.Setenv("HEALTHHUB_USERNAME", "from-env")

	var gotUsername string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotUsername = body["username"]
		reply(w, `{"token":"t"}`)
	}, nil)

	require.NoError(t, runLogin(context.Background(), "", "pw", false, WithEnv(env.Env)))
	assert.Equal(t, "from-env", gotUsername)
}

func TestRunLogin_RequiresUsername(t *testing.T) {
	t.Setenv("HEALTHHUB_USERNAME", "")

	err := runLogin(context.Background(), "", "pw", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
}

func TestRunLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "application error", body: `{"code":40001,"message":"wrong password","data":null}`, wantErr: "wrong password"},
		{name: "missing token", body: `{"code":0,"message":"ok","data":{"userInfo":{"id":1}}}`, wantErr: "did not include a token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, nil)

			err := runLogin(context.Background(), "amy", "pw", false, WithEnv(env.Env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stored(t, env.store, session.KeyToken))
		})
	}
}

func TestRunRegister(t *testing.T) {
	var gotBody map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		reply(w, `{"id":9}`)
	}, nil)

	payload := &payloadFlags{sets: []string{"email=amy@example.com"}}
	require.NoError(t, runRegister(context.Background(), env.Env, "amy", "pw", payload))

	assert.Equal(t, "amy", gotBody["username"])
	assert.Equal(t, "pw", gotBody["password"])
	assert.Equal(t, "amy@example.com", gotBody["email"])
	assert.Contains(t, env.out.String(), `"id": 9`)
}

func TestRunRegister_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, nil)

	err := runRegister(context.Background(), env.Env, "amy", "", &payloadFlags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestRunLogout(t *testing.T) {
	full := func() map[string]string {
		return map[string]string{
			session.KeyToken:      "t",
			session.KeyUserID:     "7",
			session.KeyUserInfo:   `{"id":7}`,
			session.KeyAdminToken: "a",
		}
	}

	tests := []struct {
		name      string
		admin     bool
		all       bool
		wantUser  bool
		wantAdmin bool
	}{
		{name: "user only", wantUser: false, wantAdmin: true},
		{name: "admin only", admin: true, wantUser: true, wantAdmin: false},
		{name: "all", all: true, wantUser: false, wantAdmin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {}, full())

			require.NoError(t, runLogout(env.Env, tt.admin, tt.all))

			assert.Equal(t, tt.wantUser, stored(t, env.store, session.KeyToken) != "")
			assert.Equal(t, tt.wantUser, stored(t, env.store, session.KeyUserInfo) != "")
			assert.Equal(t, tt.wantAdmin, stored(t, env.store, session.KeyAdminToken) != "")
			assert.True(t, strings.Contains(env.out.String(), "Signed out"))
		})
	}
}
