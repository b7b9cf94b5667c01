package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartfinance/internal/log"
	"smartfinance/internal/middleware/trace"
	"smartfinance/internal/services"
)

// Options tune NewServer.
type Options struct {
	MetricsEnabled bool
	Logger         *log.Logger
	// RequestTimeout bounds each handler; zero means 30 seconds.
	RequestTimeout time.Duration
}

type Server struct {
	http.Server
	app    *services.App
	logger *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, app *services.App, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	s := &Server{
		app:    app,
		logger: logger.WithComponent(log.ComponentHTTP),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(trace.NewMiddleware(logger).Handler)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/session", s.handleSession)
		})
		r.Get("/categories/{kind}", s.handleCategories)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/savings", s.handleSavings)
			r.Put("/savings/goal", s.handleSetSavingsGoal)
			r.Get("/wedding/plan", s.handleWeddingPlan)
			r.Put("/wedding/goal", s.handleSetWeddingGoal)
			r.Patch("/profile", s.handleUpdateProfile)

			r.Route("/{kind}", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Get("/summary", s.handleSummary)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// securityHeaders sets the response headers every API answer carries.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// requireSession answers 401 unless a session is active.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.app.Identity.Authenticated() {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.app == nil || s.app.Ledger == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
