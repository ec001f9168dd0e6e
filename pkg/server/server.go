// Package server exposes the almanac solver over HTTP.
//
// # Endpoints
//
//	POST /v1/solve?mode=exact|ranged&refresh=1   body: almanac text → JSON result
//	POST /v1/graph?format=dot|svg|png&detailed=1 body: almanac text → category graph
//	GET  /v1/version                              build information
//	GET  /healthz                                 liveness probe
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// holding the machine-readable code from pkg/errors:
//
//	{"error": {"code": "INVALID_NUMBER", "message": "line 3: ..."}, "request_id": "..."}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/almanac/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Options configures the server. Solver settings apply to every request.
type Options struct {
	Workers      int
	BatchSize    uint64
	Timeout      time.Duration // per-request solve deadline; zero means none
	MaxBodyBytes int64
	ReadTimeout  time.Duration
}

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.With(s.limitBody).Post("/solve", s.handleSolve)
		r.With(s.limitBody).Post("/graph", s.handleGraph)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then drains
// in-flight requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
