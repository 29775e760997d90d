package gateway

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/healthhub-dev/healthhub/internal/router"
	"github.com/healthhub-dev/healthhub/internal/session"
)

// credentialsFromCookies reads the token cookies the web client mirrors
// from local storage
func credentialsFromCookies(c *gin.Context) router.Credentials {
	token, _ := c.Cookie(session.KeyToken)
	adminToken, _ := c.Cookie(session.KeyAdminToken)
	return router.Credentials{Token: token, AdminToken: adminToken}
}

// page resolves a navigation through the route table and guard
func (s *Server) page(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	nav, err := s.routes.Navigate(c.Request.URL.Path, credentialsFromCookies(c))
	if err != nil {
		if errors.Is(err, router.ErrRedirectLoop) {
			s.logger.Error().Err(err).Msg("Redirect loop in route table")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Navigation failed"})
		return
	}

	if nav.Redirected() {
		target := nav.Final
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	if nav.NotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found", "path": nav.Final})
		return
	}

	if dir := s.config.Gateway.StaticDir; dir != "" {
		c.File(filepath.Join(dir, "index.html"))
		return
	}

	rec := nav.Match.Record
	c.JSON(http.StatusOK, gin.H{
		"name":   rec.Name,
		"path":   nav.Final,
		"title":  rec.Meta.Title,
		"params": nav.Match.Params,
	})
}
