// Package server exposes simulation runs over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/opinion-core/internal/consensus"
	"github.com/GoSim-25-26J-441/opinion-core/internal/experiment"
	"github.com/GoSim-25-26J-441/opinion-core/internal/influence"
	"github.com/GoSim-25-26J-441/opinion-core/internal/population"
	"github.com/GoSim-25-26J-441/opinion-core/internal/store"
	"github.com/GoSim-25-26J-441/opinion-core/internal/trust"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/config"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/logger"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

const (
	// MaxConfigBytes bounds the size of a submitted configuration
	MaxConfigBytes = 1 << 20
	// MaxListLimit caps the limit query parameter of GET /v1/runs
	MaxListLimit = 1000
)

// HTTPServer serves the run API over a RunStore and a Runner
type HTTPServer struct {
	mux    *http.ServeMux
	store  store.RunStore
	runner *experiment.Runner
	logger *slog.Logger
}

// NewHTTPServer creates an HTTP server and registers its routes
func NewHTTPServer(runs store.RunStore, runner *experiment.Runner) *HTTPServer {
	s := &HTTPServer{
		mux:    http.NewServeMux(),
		store:  runs,
		runner: runner,
		logger: logger.Default,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)

	return s
}

// SetLogger sets the server's logger
func (s *HTTPServer) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Handler returns the http.Handler for the server
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleRuns handles /v1/runs endpoint
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and /v1/runs/{id}/metrics
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if runID, ok := strings.CutSuffix(path, "/metrics"); ok {
		s.handleGetRunMetrics(w, r, runID)
		return
	}
	if strings.Contains(path, "/") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.handleGetRun(w, r, path)
}

// handleCreateRun handles POST /v1/runs. The body is a YAML or JSON
// configuration; the run executes before the response is written.
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		runID = utils.GenerateRunID()
	} else if err := utils.ValidateRunID(runID); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxConfigBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		s.writeError(w, http.StatusBadRequest, "config is required")
		return
	}

	cfg, err := config.ParseConfigYAML(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.Get(r.Context(), runID); err == nil {
		s.writeError(w, http.StatusConflict, "run already exists: "+runID)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run, runErr := s.runner.Execute(r.Context(), runID, cfg)
	if run == nil {
		s.writeError(w, statusForError(runErr), runErr.Error())
		return
	}

	if err := s.store.Save(r.Context(), run); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if runErr != nil {
		s.logger.Warn("run failed (HTTP)", "run_id", runID, "error", runErr)
		s.writeJSON(w, statusForError(runErr), map[string]any{
			"error": runErr.Error(),
			"run":   run,
		})
		return
	}

	s.logger.Info("run created (HTTP)", "run_id", runID)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run": run,
	})
}

// handleListRuns handles GET /v1/runs with pagination
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, MaxListLimit)
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	runs, err := s.store.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	runsJSON := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		runsJSON = append(runsJSON, convertRunToJSON(run))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": runsJSON,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
			"count":  len(runs),
		},
	})
}

// handleGetRun handles GET /v1/runs/{id}
func (s *HTTPServer) handleGetRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, ok := s.lookup(r.Context(), w, runID)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": run,
	})
}

// handleGetRunMetrics handles GET /v1/runs/{id}/metrics
func (s *HTTPServer) handleGetRunMetrics(w http.ResponseWriter, r *http.Request, runID string) {
	run, ok := s.lookup(r.Context(), w, runID)
	if !ok {
		return
	}
	if run.Metrics == nil {
		s.writeError(w, http.StatusPreconditionFailed, "metrics not available")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":  run.ID,
		"metrics": run.Metrics,
	})
}

func (s *HTTPServer) lookup(ctx context.Context, w http.ResponseWriter, runID string) (*models.Run, bool) {
	run, err := s.store.Get(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "run not found")
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return run, true
}

// statusForError maps run errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, consensus.ErrNonConvergence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, experiment.ErrNilConfig),
		errors.Is(err, trust.ErrInvalidSize),
		errors.Is(err, population.ErrInvalidCount),
		errors.Is(err, population.ErrInvalidRange),
		errors.Is(err, population.ErrInvalidProbability),
		errors.Is(err, population.ErrEmptyPlayerSet),
		errors.Is(err, consensus.ErrDimensionMismatch),
		errors.Is(err, consensus.ErrInvalidTolerance),
		errors.Is(err, influence.ErrEmptyAgentSet),
		errors.Is(err, influence.ErrEmptyPlayerSet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

// convertRunToJSON is the list view of a run, without the report body
func convertRunToJSON(run *models.Run) map[string]any {
	out := map[string]any{
		"id":           run.ID,
		"status":       run.Status,
		"seed":         run.Seed,
		"agents_count": run.AgentsCount,
		"start_time":   run.StartTime.UTC().Format(time.RFC3339Nano),
		"duration_ms":  run.Duration.Milliseconds(),
	}
	if !run.EndTime.IsZero() {
		out["end_time"] = run.EndTime.UTC().Format(time.RFC3339Nano)
	}
	if run.Error != "" {
		out["error"] = run.Error
	}
	if run.Report != nil {
		out["winners"] = run.Report.Winners
		out["losers"] = run.Report.Losers
		out["baseline_iterations"] = run.Report.Baseline.Iterations
		out["influenced_iterations"] = run.Report.Influenced.Iterations
	}
	return out
}
