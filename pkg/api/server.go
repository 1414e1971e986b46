// Package api serves layout passes over HTTP.
//
// Routes:
//
//	POST   /v1/layout                 lay out an option document
//	POST   /v1/charts                 store a chart and its layout
//	GET    /v1/charts                 list stored charts
//	GET    /v1/charts/{id}            get a stored chart
//	DELETE /v1/charts/{id}            delete a stored chart
//	GET    /v1/charts/{id}/export     export a stored layout (?format=svg)
//	GET    /healthz                   liveness
//	GET    /version                   build information
//	GET    /metrics                   Prometheus metrics, when configured
//
// Errors are JSON objects carrying the error code of pkg/errors and the
// request id.
package api

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 8 << 20

// Config configures a Server.
type Config struct {
	// Runner executes passes. Chart routes need its Store.
	Runner *pipeline.Runner
	Logger *log.Logger
	// MaxBodyBytes bounds request bodies, DefaultMaxBodyBytes when zero.
	MaxBodyBytes int64
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server is the HTTP API. It is an http.Handler.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New creates a server over cfg.Runner.
func New(cfg Config) *Server {
	s := &Server{
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, nil)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/charts", func(r chi.Router) {
			r.Post("/", s.handleCreateChart)
			r.Get("/", s.handleListCharts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetChart)
				r.Delete("/", s.handleDeleteChart)
				r.Get("/export", s.handleExportChart)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
