// Package session holds the client-side authentication state: the user
// and admin bearer tokens and the cached user identity.
package session

import (
	"encoding/json"
	"fmt"
)

// Session reads and writes authentication state through a Store
type Session struct {
	store Store
}

// New creates a Session backed by store
func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the user session token, "" when not logged in
func (s *Session) Token() (string, error) {
	token, err := s.store.Get(KeyToken)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

// AdminToken returns the admin token, "" when not logged in as admin
func (s *Session) AdminToken() (string, error) {
	token, err := s.store.Get(KeyAdminToken)
	if err != nil {
		return "", fmt.Errorf("failed to read admin token: %w", err)
	}
	return token, nil
}

// ResolveUserID returns the user id from the userId key, falling back to
// the id field of the userInfo blob. Only storage failures are returned as
// errors; an unparseable blob yields a UserIDMalformed result.
func (s *Session) ResolveUserID() (UserIDResult, error) {
	id, err := s.store.Get(KeyUserID)
	if err != nil {
		return UserIDResult{}, fmt.Errorf("failed to read user id: %w", err)
	}
	if id != "" {
		return UserIDResult{Status: UserIDFound, ID: id}, nil
	}

	blob, err := s.store.Get(KeyUserInfo)
	if err != nil {
		return UserIDResult{}, fmt.Errorf("failed to read user info: %w", err)
	}
	return ParseUserInfoID(blob), nil
}

// SaveUser stores a user login: the token, the raw user info object and,
// when the object carries one, the user id
func (s *Session) SaveUser(token string, userInfo json.RawMessage) error {
	if err := s.store.Set(KeyToken, token); err != nil {
		return err
	}

	if len(userInfo) == 0 || string(userInfo) == "null" {
		return nil
	}
	if err := s.store.Set(KeyUserInfo, string(userInfo)); err != nil {
		return err
	}

	if res := ParseUserInfoID(string(userInfo)); res.Found() {
		return s.store.Set(KeyUserID, res.ID)
	}
	return nil
}

// SaveAdmin stores an admin login
func (s *Session) SaveAdmin(token string) error {
	return s.store.Set(KeyAdminToken, token)
}

// ClearUserCredentials removes the token and user id, leaving userInfo and
// the admin token in place. This is what an expired session clears.
func (s *Session) ClearUserCredentials() error {
	for _, key := range []string{KeyToken, KeyUserID} {
		if err := s.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// Logout removes every user-domain key
func (s *Session) Logout() error {
	if err := s.ClearUserCredentials(); err != nil {
		return err
	}
	return s.store.Remove(KeyUserInfo)
}

// LogoutAdmin removes the admin token
func (s *Session) LogoutAdmin() error {
	return s.store.Remove(KeyAdminToken)
}
