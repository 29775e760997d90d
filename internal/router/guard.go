package router

import (
	"errors"
	"fmt"
)

// maxHops bounds redirect chains during one navigation
const maxHops = 10

// ErrRedirectLoop is returned when a navigation keeps redirecting
var ErrRedirectLoop = errors.New("too many redirects")

// Credentials is the token state the guard branches on. Only presence
// matters; tokens are never validated here.
type Credentials struct {
	Token      string
	AdminToken string
}

// Guard decides whether a matched route may be entered. It returns the
// redirect target and true when the navigation must be redirected.
func Guard(m Match, c Credentials) (string, bool) {
	// Admin area
	if m.Record.Meta.RequiresAdmin && c.AdminToken == "" {
		return LoginPath, true
	}

	// User area
	if m.Record.Meta.RequiresAuth && c.Token == "" {
		return LoginPath, true
	}

	// Signed in users don't need the auth pages
	name := m.Record.Name
	if (name == NameLogin || name == NameRegister) && (c.Token != "" || c.AdminToken != "") {
		if c.AdminToken != "" {
			return AdminDashboardPath, true
		}
		return UserLandingPath, true
	}

	return "", false
}

// Navigation is the outcome of navigating to a path
type Navigation struct {
	Requested string
	Final     string
	Match     Match
	Hops      []string // every path visited after Requested
	NotFound  bool
}

// Redirected reports whether the navigation ended somewhere else
func (n Navigation) Redirected() bool {
	return len(n.Hops) > 0
}

// Navigate resolves path through redirect records and the guard. Every
// redirect restarts the navigation at the new target.
func (t *Table) Navigate(path string, c Credentials) (Navigation, error) {
	nav := Navigation{Requested: normalize(path)}
	current := nav.Requested

	for hop := 0; hop <= maxHops; hop++ {
		m, ok := t.Match(current)
		if !ok {
			// Unmatched paths pass the guard and render nothing
			nav.Final = current
			nav.Match = m
			nav.NotFound = true
			return nav, nil
		}

		next := m.Record.Redirect
		if next == "" {
			if target, redirect := Guard(m, c); redirect {
				next = target
			}
		}

		if next == "" {
			nav.Final = current
			nav.Match = m
			return nav, nil
		}

		current = normalize(next)
		nav.Hops = append(nav.Hops, current)
	}

	return nav, fmt.Errorf("navigation to %s: %w", nav.Requested, ErrRedirectLoop)
}
