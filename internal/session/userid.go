package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// UserIDStatus describes how a user id lookup ended
type UserIDStatus int

const (
	UserIDAbsent UserIDStatus = iota
	UserIDFound
	// UserIDMalformed means the userInfo blob could not be parsed. Callers
	// treat it like UserIDAbsent but it stays visible for logging and tests.
	UserIDMalformed
)

func (s UserIDStatus) String() string {
	switch s {
	case UserIDFound:
		return "found"
	case UserIDMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// UserIDResult is the outcome of resolving the current user id
type UserIDResult struct {
	Status UserIDStatus
	ID     string
	Err    error // parse error when Status is UserIDMalformed
}

// Found reports whether an id was resolved
func (r UserIDResult) Found() bool {
	return r.Status == UserIDFound
}

// ParseUserInfoID extracts the id field from a stored userInfo blob. An
// empty blob, a JSON null, a non-object value or a missing/zero id all
// resolve to UserIDAbsent.
func ParseUserInfoID(blob string) UserIDResult {
	if strings.TrimSpace(blob) == "" {
		return UserIDResult{Status: UserIDAbsent}
	}

	dec := json.NewDecoder(bytes.NewBufferString(blob))
	dec.UseNumber()

	var info any
	if err := dec.Decode(&info); err != nil {
		return UserIDResult{Status: UserIDMalformed, Err: fmt.Errorf("failed to parse userInfo: %w", err)}
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return UserIDResult{Status: UserIDMalformed, Err: fmt.Errorf("failed to parse userInfo: trailing data after JSON value")}
	}

	obj, ok := info.(map[string]any)
	if !ok {
		return UserIDResult{Status: UserIDAbsent}
	}

	switch id := obj["id"].(type) {
	case string:
		if id != "" {
			return UserIDResult{Status: UserIDFound, ID: id}
		}
	case json.Number:
		if f, err := id.Float64(); err == nil && f != 0 {
			return UserIDResult{Status: UserIDFound, ID: id.String()}
		}
	}

	return UserIDResult{Status: UserIDAbsent}
}
