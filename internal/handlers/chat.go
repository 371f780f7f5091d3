package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"medassist/internal/contextutil"
	"medassist/internal/service"
)

// apologyMessage is returned with status "error" when generation fails
// unexpectedly. The browser renders it as an error bubble.
const apologyMessage = "I apologize, but I encountered an error processing your request. Please try again later."

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxLength   int     `json:"max_length,omitempty"`
	SessionID   string  `json:"session_id,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Status    string `json:"status"`
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Check if streaming is requested
	stream := r.URL.Query().Get("stream") == "true"

	if stream {
		h.handleStreamingChat(w, r, ctx)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.chatService.ProcessChat(ctx, toServiceRequest(req))
	if err != nil {
		h.handleServiceError(w, ctx, err)
		return
	}

	resp := ChatResponse{
		Status:    "success",
		Response:  svcResp.Reply,
		SessionID: svcResp.SessionID,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleStreamingChat handles streaming chat requests using Server-Sent Events.
func (h *ChatHandler) handleStreamingChat(w http.ResponseWriter, r *http.Request, ctx context.Context) {
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body for streaming", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Set up Server-Sent Events headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		h.writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	err := h.chatService.StreamChat(ctx, toServiceRequest(req), func(chunk string) error {
		_, err := fmt.Fprintf(w, "data: %s\n\n", chunk)
		if err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		logger.ErrorContext(ctx, "error streaming chat", "error", err)
		// Send error as SSE
		_, _ = fmt.Fprintf(w, "data: {\"error\":\"%s\"}\n\n", err.Error())
		flusher.Flush()
		return
	}

	// Send done signal
	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// handleServiceError maps service errors to HTTP responses. Validation
// failures are client errors; anything else keeps the 200 envelope with
// status "error" and an apology, which the browser shows as an error bubble.
func (h *ChatHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		h.writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ChatResponse{
		Status:   "error",
		Response: apologyMessage,
	})
}

// writeError writes an error response in the chat envelope.
func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ChatResponse{
		Status:   "error",
		Response: message,
	})
}

// toServiceRequest converts the HTTP payload to a domain request.
func toServiceRequest(req ChatRequest) service.ChatRequest {
	return service.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
		Params: service.GenParams{
			Temperature: req.Temperature,
			MaxLength:   req.MaxLength,
		},
	}
}
