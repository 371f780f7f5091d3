package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medassist/internal/handlers"
	"medassist/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	DB          handlers.Pinger
	Model       handlers.ModelStatus
	Sessions    handlers.SessionGetter
	Messages    handlers.MessageLister
	Assets      fs.FS

	// ChatRateLimit requests per ChatRateWindow per client IP on /chat.
	// Zero disables rate limiting (used by tests).
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) (http.Handler, error) {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware and request-scoped logger
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Model)
	statusHandler := handlers.NewModelStatusHandler(deps.Model)
	transcriptHandler := handlers.NewTranscriptHandler(deps.Sessions, deps.Messages)
	indexHandler, err := handlers.NewIndexHandler(deps.Assets)
	if err != nil {
		return nil, err
	}

	r.Group(func(r chi.Router) {
		if deps.ChatRateLimit > 0 {
			limiter := NewRateLimiter(deps.ChatRateLimit, deps.ChatRateWindow)
			r.Use(limiter.Middleware)
		}
		r.Method(http.MethodPost, "/chat", chatHandler)
	})

	r.Method(http.MethodGet, "/health", healthHandler)
	r.Method(http.MethodGet, "/model-status", statusHandler)
	r.Method(http.MethodGet, "/transcript/{sessionID}", transcriptHandler)

	// Serve the chat UI at root and its assets under /static
	r.Method(http.MethodGet, "/", indexHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(deps.Assets))))

	return r, nil
}
