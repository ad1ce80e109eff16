// Package mockapi is an in-process stand-in for the AURA backend. It backs
// the package tests and the `aura dev` command; it is not a server product.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/session"
)

// DefaultTaskCompletionPolls is how many status queries a task takes to
// complete.
const DefaultTaskCompletionPolls = 3

// Config holds mock server configuration.
type Config struct {
	// Listen is the address to bind when serving over TCP.
	Listen string

	// TaskCompletionPolls is the number of status queries before a task
	// reports completed. Zero uses the default.
	TaskCompletionPolls int
}

// Server is the mock AURA backend.
type Server struct {
	log     logrus.FieldLogger
	cfg     Config
	router  chi.Router
	server  *http.Server
	metrics *metrics

	mu            sync.Mutex
	accounts      map[string]*account // email -> account
	accessTokens  map[string]string   // access token -> user id
	refreshTokens map[string]string   // refresh token -> user id
	tasks         map[string]*mockTask
	decks         map[string]*api.Deck
}

// account is a registered user with its password.
type account struct {
	user     session.User
	password string
}

// NewServer creates a mock backend with an empty account table.
func NewServer(log logrus.FieldLogger, cfg Config) *Server {
	if cfg.TaskCompletionPolls == 0 {
		cfg.TaskCompletionPolls = DefaultTaskCompletionPolls
	}

	s := &Server{
		log:           log.WithField("component", "mockapi"),
		cfg:           cfg,
		metrics:       newMetrics(),
		accounts:      make(map[string]*account, 8),
		accessTokens:  make(map[string]string, 8),
		refreshTokens: make(map[string]string, 8),
		tasks:         make(map[string]*mockTask, 8),
		decks:         make(map[string]*api.Deck, 8),
	}

	s.router = s.buildRouter()

	return s
}

// Handler returns the HTTP handler, for mounting under httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if s.server != nil {
		return errors.New("mock server already started")
	}

	s.server = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}

	go func() {
		s.log.WithField("address", s.cfg.Listen).Info("Starting mock AURA backend")

		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Mock server error")
		}
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down mock server: %w", err)
	}

	s.server = nil

	s.log.Info("Mock server stopped")

	return nil
}

// buildRouter wires routes, metrics middleware and the auth guard.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/auth/logout", s.handleLogout)
		r.Post("/chat/ask", s.handleAsk)
		r.Get("/task/{taskID}/status", s.handleTaskStatus)
		r.Get("/kb/search", s.handleKBSearch)
		r.Get("/kb/documents", s.handleKBDocuments)
		r.Get("/analytics/courses/{courseID}", s.handleCourseAnalytics)
		r.Post("/decks/generate", s.handleDeckGenerate)
		r.Get("/decks/{deckID}", s.handleGetDeck)
	})

	return r
}

// requireAuth rejects requests without a known bearer token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")

			return
		}

		s.mu.Lock()
		userID, ok := s.accessTokens[token]
		s.mu.Unlock()

		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
