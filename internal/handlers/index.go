package handlers

import (
	"io/fs"
	"net/http"

	"medassist/internal/contextutil"
)

// IndexHandler serves the embedded chat UI entry page.
type IndexHandler struct {
	html []byte
}

// NewIndexHandler loads index.html from the given asset filesystem.
func NewIndexHandler(assets fs.FS) (*IndexHandler, error) {
	html, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		return nil, err
	}
	return &IndexHandler{html: html}, nil
}

// ServeHTTP serves the chat UI page.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.html); err != nil {
		logger.ErrorContext(ctx, "failed to write index page", "error", err)
	}
}
