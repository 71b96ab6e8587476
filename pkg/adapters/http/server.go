package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observability"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes a ports.Controller over HTTP.
type Server struct {
	Controller ports.Controller
	Journal    *observability.Journal
	Metrics    http.Handler
	Logger     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithJournal serves recent engine events on GET /events.
func WithJournal(j *observability.Journal) Option {
	return func(s *Server) {
		s.Journal = j
	}
}

// WithMetrics mounts a metrics handler (e.g. promhttp.Handler()) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// NewHandler creates a new HTTP handler for the controller.
//
//	GET  /status       engine status and latest run
//	POST /runs         compile the current graph and start it
//	POST /runs/stop    stop the active run
//	GET  /runs         run history, most recent first
//	GET  /runs/{id}    one run record
//	GET  /graph        current raw graph
//	GET  /events       recent lifecycle events (with WithJournal)
//	GET  /metrics      metrics (with WithMetrics)
func NewHandler(ctrl ports.Controller, opts ...Option) http.Handler {
	s := &Server{Controller: ctrl, Logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", s.Status)
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.StartRun)
		r.Get("/", s.ListRuns)
		r.Post("/stop", s.StopRun)
		r.Get("/{id}", s.GetRun)
	})
	r.Get("/graph", s.Graph)
	if s.Journal != nil {
		r.Get("/events", s.Events)
	}
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status domain.RunStatus  `json:"status"`
	Run    *domain.RunRecord `json:"run,omitempty"`
}

// StartResponse is the body of POST /runs.
// Started is false (with a Reason) when the graph has nothing to run.
type StartResponse struct {
	Started bool              `json:"started"`
	Reason  string            `json:"reason,omitempty"`
	Run     *domain.RunRecord `json:"run,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status handles GET /status.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	status, rec := s.Controller.Status()
	s.writeJSON(w, http.StatusOK, StatusResponse{Status: status, Run: rec})
}

// StartRun handles POST /runs.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Controller.StartRun(r.Context())
	switch {
	case errors.Is(err, domain.ErrNoObserverNode):
		s.writeJSON(w, http.StatusOK, StartResponse{Started: false, Reason: err.Error()})
	case err != nil:
		s.writeError(w, err)
	default:
		s.writeJSON(w, http.StatusCreated, StartResponse{Started: true, Run: &rec})
	}
}

// StopRun handles POST /runs/stop.
func (s *Server) StopRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Controller.Stop(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	status, rec := s.Controller.Status()
	s.writeJSON(w, http.StatusOK, StatusResponse{Status: status, Run: rec})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Controller.History(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	runs, err := s.Controller.History(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, rec := range runs {
		if rec.ID == id {
			s.writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	// The active run is only persisted once it stops
	if _, cur := s.Controller.Status(); cur != nil && cur.ID == id {
		s.writeJSON(w, http.StatusOK, cur)
		return
	}
	s.writeError(w, domain.ErrRunNotFound)
}

// Graph handles GET /graph.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Controller.Inspect(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// Events handles GET /events.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Journal.Entries())
}

func statusFor(err error) int {
	var ce *domain.CompileError
	switch {
	case errors.As(err, &ce):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyRunning), errors.Is(err, domain.ErrNotRunning):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStopTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	} else {
		s.Logger.Warn("request rejected", "err", err, "status", code)
	}
	s.writeJSON(w, code, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
