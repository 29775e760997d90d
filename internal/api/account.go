package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/healthhub-dev/healthhub/internal/client"
)

// Credentials is the login payload for both auth domains
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the data returned by Login and AdminLogin. The backend
// names the profile object user, userInfo or admin depending on the domain.
type LoginResult struct {
	Token    string          `json:"token"`
	User     json.RawMessage `json:"user,omitempty"`
	UserInfo json.RawMessage `json:"userInfo,omitempty"`
	Admin    json.RawMessage `json:"admin,omitempty"`
}

// Profile returns whichever profile object the backend sent
func (r LoginResult) Profile() json.RawMessage {
	for _, p := range []json.RawMessage{r.UserInfo, r.User, r.Admin} {
		if len(p) > 0 && string(p) != "null" {
			return p
		}
	}
	return nil
}

// Register creates a user account
func (a *API) Register(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, "/auth/register", payload)
}

// Login authenticates a user
func (a *API) Login(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, "/auth/login", payload)
}

// AdminLogin authenticates an administrator
func (a *API) AdminLogin(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, "/auth/admin/login", payload)
}

// UploadImage sends an image as multipart form field "file"
func (a *API) UploadImage(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	return a.doer.Do(ctx, client.Request{
		Method: "POST",
		Path:   "/upload/image",
		Body:   &buf,
		Header: http.Header{"Content-Type": {w.FormDataContentType()}},
	})
}

// GetUserProfile returns the current user's profile
func (a *API) GetUserProfile(ctx context.Context) (json.RawMessage, error) {
	return a.get(ctx, "/users/profile", nil)
}

// UpdateUserProfile updates the current user's profile
func (a *API) UpdateUserProfile(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.put(ctx, "/users/profile", payload)
}

func (a *API) GetMyPosts(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, "/users/my-posts", params)
}

func (a *API) GetMyFavorites(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, "/users/my-favorites", params)
}
