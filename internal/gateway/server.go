// Package gateway is the development front door of the web client: it
// hosts the route table behind the navigation guard and forwards /api to
// the backend.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/healthhub-dev/healthhub/internal/config"
	"github.com/healthhub-dev/healthhub/internal/router"
)

// Server represents the gateway HTTP server
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  zerolog.Logger
	routes  *router.Table
	proxy   *httputil.ReverseProxy
	version string
}

// New creates a new gateway instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	backend, err := url.Parse(cfg.Gateway.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}

	server := &Server{
		config:  cfg,
		logger:  zlog,
		routes:  router.NewTable(router.Routes),
		proxy:   newProxy(backend, zlog),
		version: version,
	}

	server.setupRouter()

	return server, nil
}

// newProxy forwards requests unchanged to backend. FlushInterval -1 flushes
// every write so consult streams reach the browser as they are produced.
func newProxy(backend *url.URL, zlog zerolog.Logger) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(backend)
	proxy.FlushInterval = -1

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = backend.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		zlog.Error().Err(err).Str("path", r.URL.Path).Msg("Backend unavailable")
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Gateway.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "userId", "Accept", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Backend API, streams included
	s.router.Any(config.APIPath+"/*path", gin.WrapH(s.proxy))

	// Static assets are served before page resolution
	if dir := s.config.Gateway.StaticDir; dir != "" {
		s.router.Static("/assets", dir+"/assets")
	}

	// Every other GET is a page navigation
	s.router.NoRoute(s.page)
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "healthhub-gateway",
		"version":   s.version,
	})
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	addr := s.config.Gateway.Addr

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// WriteTimeout stays 0: consult streams are long lived
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("backend", s.config.Gateway.Backend).Msg("Starting gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("gateway failed: %w", err)
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down gateway")
		return err
	}

	s.logger.Info().Msg("Gateway shutdown complete")
	return nil
}
