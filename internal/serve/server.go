// Package serve exposes the word ranker over HTTP.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/analytics"
	dbpkg "github.com/dtnitsch/wordrank/pkg/db"
	"github.com/dtnitsch/wordrank/pkg/detector"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg       models.ServerConfig
	defaultN  int
	logger    *slog.Logger
	analytics *analytics.Analytics
	journal   *dbpkg.DB // nil when the journal is disabled
	server    *http.Server
}

// New builds a server. journal may be nil.
func New(cfg models.ServerConfig, defaultN int, logger *slog.Logger, journal *dbpkg.DB) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxN < 1 {
		cfg.MaxN = models.DefaultServerMaxN
	}
	if cfg.MaxBodyBytes < 1 {
		cfg.MaxBodyBytes = models.DefaultMaxBodyBytes
	}
	if defaultN < 1 || defaultN > cfg.MaxN {
		defaultN = min(models.DefaultN, cfg.MaxN)
	}

	s := &Server{
		cfg:       cfg,
		defaultN:  defaultN,
		logger:    logger.With("component", "http"),
		analytics: &analytics.Analytics{},
		journal:   journal,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in request-ID and logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /stats", s.handleStats)
	return s.withRequestLogging(mux)
}

// ListenAndServe serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()
	s.logger.Info("http server listening", "address", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if status, err := s.decode(w, r, &req); err != nil {
		s.writeError(w, status, err.Error())
		return
	}

	if req.Text == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	if *req.Text == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "text must be at least 1 character")
		return
	}
	n := s.defaultN
	if req.N != nil {
		n = *req.N
	}
	if n < 1 || n > s.cfg.MaxN {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("n must be between 1 and %d", s.cfg.MaxN))
		return
	}

	text, err := analytics.RequireText(*req.Text)
	if errors.Is(err, analytics.ErrEmptyInput) {
		s.writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	counts := s.analytics.WordFrequency(text)
	items, err := s.analytics.RankCounts(counts, n)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	resp := models.AnalyzeResponse{
		N:      n,
		Report: analytics.FormatReport(n, items),
		Items:  models.ToRanked(items),
	}
	s.record(r.Context(), common.NewRun(models.SourceHTTP, "", text, n, counts, len(items)))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var req models.StatsRequest
	if status, err := s.decode(w, r, &req); err != nil {
		s.writeError(w, status, err.Error())
		return
	}
	if req.Text == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "text is required")
		return
	}
	if _, err := analytics.RequireText(*req.Text); errors.Is(err, analytics.ErrEmptyInput) {
		s.writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	stats := s.analytics.TextStats(*req.Text)
	if code, confidence, ok := detector.Detect(*req.Text); ok {
		stats.Language = code
		stats.LanguageConfidence = confidence
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// decode reads a JSON body into v. The returned status tells malformed input
// (400) apart from well-formed JSON with wrongly typed fields (422).
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return http.StatusBadRequest, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.As(err, &typeErr):
			return http.StatusUnprocessableEntity, fmt.Errorf("field %q must be of type %s", typeErr.Field, typeErr.Type)
		default:
			return http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return http.StatusOK, nil
}

func (s *Server) record(ctx context.Context, run *models.Run) {
	if s.journal == nil {
		return
	}
	if err := s.journal.InsertRun(run); err != nil {
		s.logger.WarnContext(ctx, "run not recorded", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, models.ErrorResponse{Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
