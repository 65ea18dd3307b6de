// package server contains middleware & handlers for the resolver web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/solify/internal/shared"
	"github.com/desertthunder/solify/internal/tasks"
	"golang.org/x/time/rate"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Route is a single method and pattern served by a [Handler].
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Handler groups related routes so a handler can encapsulate its own route definitions.
type Handler interface {
	Routes() []Route
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers every route of a Handler
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Resolver is everything the HTTP surface needs from the resolver layer.
type Resolver interface {
	tasks.PlaylistResolver
	tasks.RecommendationResolver
}

// Server serves the resolver over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds the router and middleware stack for resolver.
func New(cfg shared.ServerConfig, resolver Resolver, logger *log.Logger) *Server {
	router := NewChiRouter()
	router.Use(RequestID, RealIP, Recoverer, RequestLogger(logger))
	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		router.Use(RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)))
	}
	router.Handler(NewResolverHandler(resolver))

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is [Server.Run] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}
