package session

import (
	"context"

	"github.com/rs/zerolog"
)

// Navigator moves the user interface to another route
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// ExpiryHandler reacts to the server reporting an expired user session by
// clearing the user credentials and navigating to the login route
type ExpiryHandler struct {
	session   *Session
	navigator Navigator
	loginPath string
	logger    zerolog.Logger
}

// NewExpiryHandler creates an ExpiryHandler. navigator may be nil when there
// is nothing to navigate.
func NewExpiryHandler(s *Session, navigator Navigator, loginPath string, logger zerolog.Logger) *ExpiryHandler {
	return &ExpiryHandler{
		session:   s,
		navigator: navigator,
		loginPath: loginPath,
		logger:    logger,
	}
}

// SessionExpired clears the user token and user id. The admin token is left
// alone: the server reports expiry with a single code for both domains.
func (h *ExpiryHandler) SessionExpired(ctx context.Context) {
	if err := h.session.ClearUserCredentials(); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear expired session")
	} else {
		h.logger.Info().Msg("Session expired, credentials cleared")
	}

	if h.navigator != nil {
		h.navigator.Navigate(h.loginPath)
	}
}
