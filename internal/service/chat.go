package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService medassist/internal/service ChatService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks medassist/internal/service Generator,SessionStore,MessageStore

import (
	"context"
	"strings"

	"medassist/internal/contextutil"
	"medassist/internal/fallback"
)

// Message roles recorded in the transcript.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Disclaimer is appended to every generated reply.
const Disclaimer = "**⚠️ Medical Disclaimer:** This information is for educational purposes only and should not replace professional medical advice. Always consult healthcare professionals for medical concerns."

// Generator is an interface for the model backend that produces replies.
// This interface is defined from the service layer's perspective (consumer-first).
type Generator interface {
	// Chat sends a message to the model backend and returns the reply.
	Chat(ctx context.Context, message string, temperature float64, maxTokens int) (string, error)
	// StreamChat sends a message to the model backend and streams the reply via callback.
	StreamChat(ctx context.Context, message string, temperature float64, maxTokens int, callback func(chunk string) error) error
}

// Readiness reports whether the model backend is ready to serve requests.
type Readiness interface {
	Ready() bool
}

// SessionStore creates and verifies transcript sessions.
type SessionStore interface {
	// Create mints a new session and returns its ID.
	Create(ctx context.Context) (string, error)
	// Ensure makes sure a session with the given ID exists, creating it if needed.
	Ensure(ctx context.Context, id string) error
}

// MessageStore appends messages to the transcript. The transcript is
// append-only: messages are never updated or deleted.
type MessageStore interface {
	Insert(ctx context.Context, sessionID, role, content string) error
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message   string
	SessionID string
	Params    GenParams
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply     string
	SessionID string
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// StreamChat processes a chat request and streams the response via callback.
	StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error
}

// chatService implements ChatService.
type chatService struct {
	generator Generator
	readiness Readiness
	responder *fallback.Responder
	sessions  SessionStore
	messages  MessageStore
}

// NewChatService creates a new ChatService.
func NewChatService(generator Generator, readiness Readiness, responder *fallback.Responder, sessions SessionStore, messages MessageStore) ChatService {
	return &chatService{
		generator: generator,
		readiness: readiness,
		responder: responder,
		sessions:  sessions,
		messages:  messages,
	}
}

// ProcessChat sanitizes the message, normalizes generation parameters,
// produces a reply (model backend first, rule-based fallback otherwise),
// appends the medical disclaimer, and records both turns in the transcript.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	message := Sanitize(req.Message)
	if message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	params := req.Params.Normalize()

	sessionID, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to resolve session", "error", err)
		return ChatResponse{}, WrapError(err, "failed to resolve session")
	}

	reply := s.generate(ctx, message, params)
	reply += "\n\n" + Disclaimer

	s.record(ctx, sessionID, message, reply)

	logger.InfoContext(ctx, "chat request processed successfully",
		"session_id", sessionID, "message_length", len(message), "reply_length", len(reply))
	return ChatResponse{
		Reply:     reply,
		SessionID: sessionID,
	}, nil
}

// StreamChat processes a chat request and streams the response. When the
// model backend is unavailable the fallback reply is delivered as a single
// chunk so the client-side contract stays the same.
func (s *chatService) StreamChat(ctx context.Context, req ChatRequest, callback func(chunk string) error) error {
	logger := contextutil.LoggerFromContext(ctx)

	message := Sanitize(req.Message)
	if message == "" {
		logger.WarnContext(ctx, "empty message in streaming chat request")
		return &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	params := req.Params.Normalize()

	sessionID, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to resolve session", "error", err)
		return WrapError(err, "failed to resolve session")
	}

	var full strings.Builder
	collect := func(chunk string) error {
		full.WriteString(chunk)
		return callback(chunk)
	}

	if s.readiness.Ready() {
		err := s.generator.StreamChat(ctx, message, params.Temperature, params.MaxLength, collect)
		if err != nil {
			if full.Len() > 0 {
				// Partial output already reached the client; nothing sane to fall back to.
				logger.ErrorContext(ctx, "stream failed mid-reply", "error", err)
				return WrapError(err, "failed to stream model response")
			}
			logger.WarnContext(ctx, "model backend stream failed, using fallback", "error", err)
			if err := collect(s.responder.Respond(message)); err != nil {
				return WrapError(err, "callback error")
			}
		}
	} else {
		if err := collect(s.responder.Respond(message)); err != nil {
			return WrapError(err, "callback error")
		}
	}

	if err := collect("\n\n" + Disclaimer); err != nil {
		return WrapError(err, "callback error")
	}

	s.record(ctx, sessionID, message, full.String())

	logger.InfoContext(ctx, "streaming chat request processed successfully",
		"session_id", sessionID, "message_length", len(message))
	return nil
}

// resolveSession returns the session ID to record against, minting a new
// session when the request carries none. Unknown IDs are accepted as new
// sessions rather than rejected.
func (s *chatService) resolveSession(ctx context.Context, id string) (string, error) {
	if id == "" {
		return s.sessions.Create(ctx)
	}
	if err := s.sessions.Ensure(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// generate produces the reply text, preferring the model backend and
// falling back to the rule-based responder when the backend is not ready
// or the call fails.
func (s *chatService) generate(ctx context.Context, message string, params GenParams) string {
	logger := contextutil.LoggerFromContext(ctx)

	if s.readiness.Ready() {
		reply, err := s.generator.Chat(ctx, message, params.Temperature, params.MaxLength)
		if err == nil && reply != "" {
			return reply
		}
		logger.WarnContext(ctx, "model backend failed, using fallback", "error", err)
	}

	return s.responder.Respond(message)
}

// record appends the user and bot turns to the transcript. Persistence
// failures are logged, not surfaced: the reply already exists and the
// transcript is best-effort.
func (s *chatService) record(ctx context.Context, sessionID, message, reply string) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.messages.Insert(ctx, sessionID, RoleUser, message); err != nil {
		logger.ErrorContext(ctx, "failed to record user message", "session_id", sessionID, "error", err)
	}
	if err := s.messages.Insert(ctx, sessionID, RoleBot, reply); err != nil {
		logger.ErrorContext(ctx, "failed to record bot message", "session_id", sessionID, "error", err)
	}
}
