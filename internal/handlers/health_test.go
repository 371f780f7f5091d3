package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medassist/internal/handlers"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error { return f.err }

type fakeModelStatus struct {
	ready   bool
	loading bool
}

func (f *fakeModelStatus) Ready() bool   { return f.ready }
func (f *fakeModelStatus) Loading() bool { return f.loading }

func TestHealthHandler_Healthy(t *testing.T) {
	handler := handlers.NewHealthHandler(&fakePinger{}, &fakeModelStatus{ready: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp handlers.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status field = %q, want healthy", resp.Status)
	}
	if resp.Service != handlers.ServiceName {
		t.Errorf("service field = %q, want %q", resp.Service, handlers.ServiceName)
	}
	if !resp.ModelLoaded {
		t.Error("model_loaded should be true")
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database check = %q, want ok", resp.Checks["database"])
	}
	if resp.Checks["model_backend"] != "ok" {
		t.Errorf("model_backend check = %q, want ok", resp.Checks["model_backend"])
	}
	if len(resp.Issues) != 0 {
		t.Errorf("issues = %v, want none", resp.Issues)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	handler := handlers.NewHealthHandler(
		&fakePinger{err: errors.New("connection refused")},
		&fakeModelStatus{ready: true},
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var resp handlers.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("status field = %q, want unhealthy", resp.Status)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("database check = %q, want error", resp.Checks["database"])
	}
	if len(resp.Issues) == 0 {
		t.Error("issues should list database_unavailable")
	}
}

func TestHealthHandler_ModelLoadingStaysHealthy(t *testing.T) {
	// Fallback responses cover the loading window, so a cold model backend
	// must not flip health to 503.
	handler := handlers.NewHealthHandler(&fakePinger{}, &fakeModelStatus{loading: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp handlers.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ModelLoaded {
		t.Error("model_loaded should be false while loading")
	}
	if !resp.ModelLoading {
		t.Error("model_loading should be true")
	}
	if resp.Checks["model_backend"] != "loading" {
		t.Errorf("model_backend check = %q, want loading", resp.Checks["model_backend"])
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := handlers.NewHealthHandler(&fakePinger{}, &fakeModelStatus{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestModelStatusHandler(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModelStatus
	}{
		{name: "loaded", model: &fakeModelStatus{ready: true}},
		{name: "loading", model: &fakeModelStatus{loading: true}},
		{name: "down", model: &fakeModelStatus{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewModelStatusHandler(tt.model)

			req := httptest.NewRequest(http.MethodGet, "/model-status", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp handlers.ModelStatusResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Loaded != tt.model.ready {
				t.Errorf("loaded = %v, want %v", resp.Loaded, tt.model.ready)
			}
			if resp.Loading != tt.model.loading {
				t.Errorf("loading = %v, want %v", resp.Loading, tt.model.loading)
			}
			if resp.Deployment != "api_server" {
				t.Errorf("deployment = %q, want api_server", resp.Deployment)
			}
		})
	}
}
