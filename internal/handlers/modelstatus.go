package handlers

import (
	"encoding/json"
	"net/http"

	"medassist/internal/contextutil"
)

// ModelStatusHandler reports the model backend's loading state.
type ModelStatusHandler struct {
	model ModelStatus
}

// NewModelStatusHandler creates a new ModelStatusHandler.
func NewModelStatusHandler(model ModelStatus) *ModelStatusHandler {
	return &ModelStatusHandler{model: model}
}

// ModelStatusResponse represents the model status payload.
type ModelStatusResponse struct {
	Loaded     bool   `json:"loaded"`
	Loading    bool   `json:"loading"`
	Deployment string `json:"deployment"`
}

// ServeHTTP handles HTTP requests for model status.
func (h *ModelStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ModelStatusResponse{
		Loaded:     h.model.Ready(),
		Loading:    h.model.Loading(),
		Deployment: "api_server",
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode model status response", "error", err)
	}
}
