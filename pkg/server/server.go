// Package server exposes the generator over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness and build info
//	POST /v1/dungeons                   generate with config overrides
//	GET  /v1/dungeons/{seed}.{format}   one artifact for the default config
//
// Errors are JSON objects carrying the error code; the status follows
// [errors.HTTPStatus].
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/buildinfo"
	"github.com/matzehuels/bspgen/pkg/dungeon"
	"github.com/matzehuels/bspgen/pkg/errors"
	"github.com/matzehuels/bspgen/pkg/observability"
	"github.com/matzehuels/bspgen/pkg/pipeline"
)

// maxBodyBytes bounds a POST body.
const maxBodyBytes = 1 << 20

// Server serves generation requests through a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	base    bsp.Config
	logger  *log.Logger
	timeout time.Duration
	seed    func() uint64
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithSeedSource replaces the source of seeds for requests without one.
func WithSeedSource(f func() uint64) Option { return func(s *Server) { s.seed = f } }

// New creates a server. base is the generator config that request
// overrides are applied to.
func New(runner *pipeline.Runner, base bsp.Config, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		base:   base,
		logger: logger,
		seed:   rand.Uint64,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/dungeons", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/{file}", s.handleArtifact)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

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
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs every request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// generateRequest is the POST /v1/dungeons body. Config holds a partial
// generator config merged over the server's base config.
type generateRequest struct {
	Seed     *uint64         `json:"seed"`
	Config   json.RawMessage `json:"config"`
	Formats  []string        `json:"formats"`
	Border   bool            `json:"border"`
	Regions  bool            `json:"regions"`
	Labels   bool            `json:"labels"`
	Detailed bool            `json:"detailed"`
}

// generateResponse carries binary artifacts base64 encoded, as
// encoding/json does for byte slices.
type generateResponse struct {
	ID        string            `json:"id"`
	Seed      uint64            `json:"seed"`
	Key       string            `json:"key"`
	Cached    bool              `json:"cached"`
	Stats     dungeon.Stats     `json:"stats"`
	Warnings  []string          `json:"warnings,omitempty"`
	Rooms     []bsp.Room        `json:"rooms"`
	Corridors []bsp.Corridor    `json:"corridors"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	cfg := s.base
	if len(req.Config) > 0 {
		cdec := json.NewDecoder(bytes.NewReader(req.Config))
		cdec.DisallowUnknownFields()
		if err := cdec.Decode(&cfg); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config"))
			return
		}
	}
	seed := s.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	opts := pipeline.Options{
		Config:   cfg,
		Seed:     seed,
		Formats:  req.Formats,
		Border:   req.Border,
		Regions:  req.Regions,
		Labels:   req.Labels,
		Detailed: req.Detailed,
		Logger:   s.logger,
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d := res.Dungeon
	if d == nil {
		// Artifacts came from the cache; the snapshot supplies the rest.
		if d, err = s.runner.Generate(r.Context(), opts); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	id := uuid.NewString()
	w.Header().Set("X-Run-ID", id)
	writeJSON(w, http.StatusOK, generateResponse{
		ID:        id,
		Seed:      res.Seed,
		Key:       res.Key,
		Cached:    res.CacheInfo.RenderHit,
		Stats:     d.Stats,
		Warnings:  d.Warnings,
		Rooms:     d.Rooms,
		Corridors: d.Corridors,
		Artifacts: res.Artifacts,
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	seedStr, format, ok := strings.Cut(file, ".")
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "expected {seed}.{format}, got %q", file))
		return
	}
	seed, err := errors.ParseSeed(seedStr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Config:  s.base,
		Seed:    seed,
		Formats: []string{format},
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatSVG, pipeline.FormatTreeSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG, pipeline.FormatTreePNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.GetCode(err) == "" && stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.FromContext(err, r.URL.Path)
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
