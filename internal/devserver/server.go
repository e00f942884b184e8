// ABOUTME: Stub dairy API server for local development and end-to-end tests
// ABOUTME: Wires the chi router, sqlite store and token signer; Run serves until ctx ends

package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// DefaultDSN keeps the database in memory for the life of the process
const DefaultDSN = "file::memory:?cache=shared"

const shutdownTimeout = 10 * time.Second

// Options configures a Server
type Options struct {
	DSN       string
	JWTSecret string
	TokenTTL  time.Duration

	// AuthRPS and AuthBurst limit sign-in and sign-up per client IP.
	// Zero AuthRPS disables the limit.
	AuthRPS   float64
	AuthBurst int
}

// DefaultOptions returns development defaults
func DefaultOptions() Options {
	return Options{
		DSN:       DefaultDSN,
		TokenTTL:  DefaultTokenTTL,
		AuthRPS:   5,
		AuthBurst: 10,
	}
}

// Server is the stub API
type Server struct {
	store   *Store
	tokens  *Tokens
	limiter *RateLimiter
	router  chi.Router
}

// New opens the store and builds the router
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.DSN == "" {
		opts.DSN = DefaultDSN
	}

	store, err := OpenStore(ctx, opts.DSN)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:  store,
		tokens: NewTokens(opts.JWTSecret, opts.TokenTTL),
	}
	if opts.AuthRPS > 0 {
		burst := opts.AuthBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = NewRateLimiter(opts.AuthRPS, burst)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(LogRequest)

	r.Get("/api/health", s.Health)

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(s.limiter))
		r.Post("/api/signup", s.SignUp)
		r.Post("/api/signin", s.SignIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.tokens))
		r.Get("/api/me", s.Me)
		r.Post("/api/upload", s.Upload)
		r.Put("/api/upload", s.Upload)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the backing store
func (s *Server) Store() *Store {
	return s.store
}

// Close releases the store
func (s *Server) Close() error {
	return s.store.Close()
}

// Run listens on addr and serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Stub API listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down stub API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
