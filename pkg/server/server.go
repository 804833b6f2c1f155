// Package server exposes tower building and scoring over HTTP.
//
// Routes:
//
//	POST /v1/build      words (+ volume, options) -> placements and report
//	POST /v1/evaluate   words + placements -> report
//	GET  /healthz       liveness
//	GET  /version       build information
//
// Request bodies are checked against embedded JSON schemas before they are
// decoded. Errors are returned as {"error": CODE, "message": text}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordtower/pkg/buildinfo"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	maxBodySize     = 4 << 20
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Runner builds and scores towers. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Defaults seeds the pipeline options of every request.
	Defaults pipeline.Options

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

// New returns a Server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	return &Server{runner: opts.Runner, defaults: opts.Defaults, logger: opts.Logger}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/build", s.handleBuild)
		r.Post("/evaluate", s.handleEvaluate)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// logRequests logs one line per request with the charm logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

// readBody reads and schema-checks a request body.
func readBody(r *http.Request, schema string, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidInput, err, "read body")
	}
	if err := validateJSON(schema, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidInput, err, "decode body")
	}
	return nil
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := werrors.GetCode(err)
	if code == "" {
		code = werrors.ErrCodeInternal
	}
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, status, ErrorResponse{Error: string(code), Message: werrors.UserMessage(err)})
}
