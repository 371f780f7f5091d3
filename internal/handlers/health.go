package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"medassist/internal/contextutil"
)

// ServiceName and ServiceVersion identify this API in health payloads.
const (
	ServiceName    = "medassist-api"
	ServiceVersion = "1.0.0"
)

// Pinger verifies database connectivity. Satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ModelStatus reports the model backend's readiness state.
type ModelStatus interface {
	Ready() bool
	Loading() bool
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	model              ModelStatus
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, model ModelStatus) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		model:              model,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	Service string `json:"service"`
	Version string `json:"version"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Model backend readiness. The service answers from the fallback
	// responder while the model is loading, so these never gate health.
	ModelLoaded  bool `json:"model_loaded"`
	ModelLoading bool `json:"model_loading"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK if healthy, 503 Service Unavailable if the transcript
// database is unreachable. The model backend is reported but not gated on.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if err := h.db.PingContext(checkCtx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
	} else {
		checks["database"] = "ok"
	}

	loaded := h.model.Ready()
	if loaded {
		checks["model_backend"] = "ok"
	} else {
		checks["model_backend"] = "loading"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:       status,
		Service:      ServiceName,
		Version:      ServiceVersion,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ModelLoaded:  loaded,
		ModelLoading: h.model.Loading(),
		Checks:       checks,
	}

	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
