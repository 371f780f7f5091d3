package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"medassist/internal/handlers"
	"medassist/internal/storage"
)

type fakeSessionGetter struct {
	session *storage.Session
	err     error
}

func (f *fakeSessionGetter) Get(ctx context.Context, id string) (*storage.Session, error) {
	return f.session, f.err
}

type fakeMessageLister struct {
	messages []storage.Message
	err      error
}

func (f *fakeMessageLister) ListBySession(ctx context.Context, sessionID string) ([]storage.Message, error) {
	return f.messages, f.err
}

func transcriptRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/transcript/"+url.PathEscape(sessionID), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", sessionID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTranscriptHandler_RendersConversation(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sessions := &fakeSessionGetter{
		session: &storage.Session{ID: "session-1", CreatedAt: started},
	}
	messages := &fakeMessageLister{
		messages: []storage.Message{
			{ID: "m1", SessionID: "session-1", Role: "user", Content: "what is a fever", CreatedAt: started},
			{ID: "m2", SessionID: "session-1", Role: "bot", Content: "**Fever** is elevated body temperature.", CreatedAt: started},
		},
	}

	handler := handlers.NewTranscriptHandler(sessions, messages)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, transcriptRequest("session-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, "session-1") {
		t.Error("page should mention the session ID")
	}
	if !strings.Contains(body, "what is a fever") {
		t.Error("page should contain the user message")
	}
	if !strings.Contains(body, "<strong>Fever</strong>") {
		t.Error("bot markdown should render to HTML")
	}
}

func TestTranscriptHandler_EscapesUserContent(t *testing.T) {
	started := time.Now().UTC()
	sessions := &fakeSessionGetter{
		session: &storage.Session{ID: "session-1", CreatedAt: started},
	}
	messages := &fakeMessageLister{
		messages: []storage.Message{
			{ID: "m1", SessionID: "session-1", Role: "user", Content: `<script>alert("x")</script>`, CreatedAt: started},
		},
	}

	handler := handlers.NewTranscriptHandler(sessions, messages)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, transcriptRequest("session-1"))

	body := w.Body.String()
	if strings.Contains(body, "<script>alert") {
		t.Error("user content must be escaped, raw script tag found")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("escaped user content should appear in the page")
	}
}

func TestTranscriptHandler_SessionNotFound(t *testing.T) {
	handler := handlers.NewTranscriptHandler(
		&fakeSessionGetter{err: storage.ErrNotFound},
		&fakeMessageLister{},
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, transcriptRequest("no-such-session"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestTranscriptHandler_StorageError(t *testing.T) {
	handler := handlers.NewTranscriptHandler(
		&fakeSessionGetter{err: errors.New("disk error")},
		&fakeMessageLister{},
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, transcriptRequest("session-1"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTranscriptHandler_EmptySessionID(t *testing.T) {
	handler := handlers.NewTranscriptHandler(&fakeSessionGetter{}, &fakeMessageLister{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, transcriptRequest("  "))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
