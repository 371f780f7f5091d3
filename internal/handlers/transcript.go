package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"medassist/internal/contextutil"
	"medassist/internal/service"
	"medassist/internal/storage"
)

// SessionGetter fetches a session record.
type SessionGetter interface {
	Get(ctx context.Context, id string) (*storage.Session, error)
}

// MessageLister lists a session's transcript messages in order.
type MessageLister interface {
	ListBySession(ctx context.Context, sessionID string) ([]storage.Message, error)
}

// TranscriptHandler serves stored session transcripts as rendered HTML pages.
// Bot replies are markdown, so they go through goldmark; user messages are
// plain text and rely on template escaping.
type TranscriptHandler struct {
	sessions SessionGetter
	messages MessageLister
	parser   goldmark.Markdown
	template *template.Template
}

// transcriptPageData holds template data for rendered transcript pages.
type transcriptPageData struct {
	SessionID string
	Started   string
	Messages  []transcriptMessage
}

type transcriptMessage struct {
	Role    string
	Time    string
	Content template.HTML
}

// NewTranscriptHandler creates a new handler for serving session transcripts.
func NewTranscriptHandler(sessions SessionGetter, messages MessageLister) *TranscriptHandler {
	tmpl := template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Chat Transcript</title>
  <style>
    body {
      font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 800px;
      line-height: 1.5;
      background: #f8f9fa;
      color: #333;
    }
    header {
      margin-bottom: 1.5rem;
      border-bottom: 1px solid #e9ecef;
      padding-bottom: 1rem;
    }
    h1 { margin-top: 0; font-size: 1.4rem; }
    .meta { color: #6c757d; font-size: 0.9rem; }
    .message {
      margin: 1rem 0;
      padding: 1rem 1.25rem;
      border-radius: 12px;
      max-width: 85%;
    }
    .message.user {
      background: #667eea;
      color: white;
      margin-left: auto;
    }
    .message.bot {
      background: white;
      border: 1px solid #e9ecef;
      margin-right: auto;
    }
    .message .time {
      display: block;
      font-size: 0.75rem;
      opacity: 0.7;
      margin-bottom: 0.25rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>Chat Transcript</h1>
    <p class="meta">Session {{.SessionID}} &middot; started {{.Started}}</p>
  </header>
  {{range .Messages}}<div class="message {{.Role}}">
    <span class="time">{{.Time}}</span>
    {{.Content}}
  </div>
  {{end}}
</body>
</html>`))

	return &TranscriptHandler{
		sessions: sessions,
		messages: messages,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP renders the requested session transcript as HTML.
func (h *TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		http.Error(w, "session ID is required", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to load session", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load transcript", http.StatusInternalServerError)
		return
	}

	messages, err := h.messages.ListBySession(ctx, sessionID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list messages", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load transcript", http.StatusInternalServerError)
		return
	}

	pageData := transcriptPageData{
		SessionID: session.ID,
		Started:   session.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Messages:  make([]transcriptMessage, 0, len(messages)),
	}

	for _, m := range messages {
		content, err := h.renderContent(m)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render message", "message_id", m.ID, "error", err)
			http.Error(w, "failed to render transcript", http.StatusInternalServerError)
			return
		}
		pageData.Messages = append(pageData.Messages, transcriptMessage{
			Role:    m.Role,
			Time:    m.CreatedAt.UTC().Format("15:04:05"),
			Content: content,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute transcript template", "session_id", sessionID, "error", err)
	}
}

// renderContent converts a message to display HTML. Bot replies are rendered
// from markdown; user messages are escaped verbatim.
func (h *TranscriptHandler) renderContent(m storage.Message) (template.HTML, error) {
	if m.Role != service.RoleBot {
		return template.HTML(template.HTMLEscapeString(m.Content)), nil
	}

	var buf bytes.Buffer
	if err := h.parser.Convert([]byte(m.Content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
