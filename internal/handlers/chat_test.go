package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"medassist/internal/handlers"
	"medassist/internal/service"
	"medassist/internal/service/mocks"
)

func TestChatHandler_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{
			Message: "what is a fever",
			Params:  service.GenParams{Temperature: 0.7, MaxLength: 200},
		}).
		Return(service.ChatResponse{Reply: "A fever is...", SessionID: "session-1"}, nil)

	handler := handlers.NewChatHandler(chatService)

	body := `{"message":"what is a fever","temperature":0.7,"max_length":200}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp handlers.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status field = %q, want success", resp.Status)
	}
	if resp.Response != "A fever is..." {
		t.Errorf("response field = %q", resp.Response)
	}
	if resp.SessionID != "session-1" {
		t.Errorf("session_id field = %q, want session-1", resp.SessionID)
	}
}

func TestChatHandler_ForwardsSessionID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{
			Message:   "hello again",
			SessionID: "existing-session",
		}).
		Return(service.ChatResponse{Reply: "Hi!", SessionID: "existing-session"}, nil)

	handler := handlers.NewChatHandler(chatService)

	body := `{"message":"hello again","session_id":"existing-session"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := handlers.NewChatHandler(mocks.NewMockChatService(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestChatHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := handlers.NewChatHandler(mocks.NewMockChatService(ctrl))

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp handlers.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
}

func TestChatHandler_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		ProcessChat(gomock.Any(), gomock.Any()).
		Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Message: "cannot be empty"})

	handler := handlers.NewChatHandler(chatService)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"   "}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp handlers.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Response, "cannot be empty") {
		t.Errorf("response field = %q, want validation detail", resp.Response)
	}
}

func TestChatHandler_UnexpectedErrorKeepsEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		ProcessChat(gomock.Any(), gomock.Any()).
		Return(service.ChatResponse{}, errors.New("database exploded"))

	handler := handlers.NewChatHandler(chatService)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// Unexpected failures keep the 200 envelope; the browser renders the
	// apology as an error bubble based on the status field.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp handlers.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
	if !strings.Contains(resp.Response, "I apologize") {
		t.Errorf("response field = %q, want apology message", resp.Response)
	}
	if strings.Contains(resp.Response, "database exploded") {
		t.Error("internal error detail must not leak to the client")
	}
}

func TestChatHandler_Streaming(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req service.ChatRequest, callback func(chunk string) error) error {
			for _, chunk := range []string{"Hello", " world"} {
				if err := callback(chunk); err != nil {
					return err
				}
			}
			return nil
		})

	handler := handlers.NewChatHandler(chatService)

	req := httptest.NewRequest(http.MethodPost, "/chat?stream=true", strings.NewReader(`{"message":"hello"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	body := w.Body.String()
	for _, want := range []string{"data: Hello\n\n", "data:  world\n\n", "data: [DONE]\n\n"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q, got:\n%s", want, body)
		}
	}
}

func TestChatHandler_StreamingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("stream interrupted"))

	handler := handlers.NewChatHandler(chatService)

	req := httptest.NewRequest(http.MethodPost, "/chat?stream=true", strings.NewReader(`{"message":"hello"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `"error"`) {
		t.Errorf("body should carry an SSE error event, got:\n%s", body)
	}
	if strings.Contains(body, "[DONE]") {
		t.Error("failed stream must not emit the done signal")
	}
}

func TestChatHandler_DefaultParamsPassZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Omitted settings arrive as zero values; normalization happens in the
	// service layer, not the handler.
	chatService := mocks.NewMockChatService(ctrl)
	chatService.EXPECT().
		ProcessChat(gomock.Any(), service.ChatRequest{Message: "hello"}).
		Return(service.ChatResponse{Reply: "Hi!", SessionID: "session-1"}, nil)

	handler := handlers.NewChatHandler(chatService)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"message":"hello"}`)))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
