package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/foodiq/internal/labelstore"
)

func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	if s.opts.Labels == nil {
		s.writeError(w, http.StatusNotFound, "label archive disabled")
		return
	}

	key := chi.URLParam(r, "key")
	rc, mimeType, err := s.opts.Labels.Get(r.Context(), key)
	if errors.Is(err, labelstore.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "label not found")
		return
	}
	if err != nil {
		s.logger.Warn("failed to get label", "key", key, "error", err)
		s.writeError(w, http.StatusNotFound, "label not found")
		return
	}
	defer closeWithLog(rc, "label reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to write label", "key", key, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
