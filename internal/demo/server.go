// Package demo serves a local stand-in for the warehouse app backend,
// so the dashboard can be developed against realistic data.
package demo

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Options configures the stub backend.
type Options struct {
	Listen   string        // bind address
	Degraded bool          // ping reports a failed warehouse connection
	Latency  time.Duration // artificial delay before each response
}

// Server is the stub backend.
type Server struct {
	opts        Options
	logger      *slog.Logger
	messages    []Message
	router      chi.Router
	server      *http.Server
	rateLimiter *rateLimiter
}

// NewServer creates a stub backend over the bundled sample dataset.
func NewServer(opts Options, logger *slog.Logger) *Server {
	s := &Server{
		opts:     opts,
		logger:   logger,
		messages: Dataset(240),
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// Generous for a local stub, but keeps a runaway client honest.
	s.rateLimiter = newRateLimiter(50, 100)
	s.rateLimiter.install(r)

	if s.opts.Latency > 0 {
		r.Use(s.latencyMiddleware)
	}

	r.Get("/api/me", s.handleMe)
	r.Get("/api/sql/ping", s.handlePing)
	r.Get("/api/emails", s.handleEmails)
	r.Get("/api/debug/env", s.handleDebugEnv)

	return r
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.opts.Listen,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting demo backend", "addr", s.opts.Listen, "messages", len(s.messages))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down demo backend")
	return s.server.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// latencyMiddleware delays each response so the dashboard's progress
// states stay visible.
func (s *Server) latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimiter provides per-IP rate limiting.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

func (rl *rateLimiter) install(r chi.Router) {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(r.RemoteAddr) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded","message":"Too many requests. Please slow down."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}
