package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vbonduro/foodiq/internal/domain"
	"github.com/vbonduro/foodiq/internal/gateway"
	"github.com/vbonduro/foodiq/internal/service"
)

// maxExtractBody leaves room for a 10 MB image after base64 expansion.
const maxExtractBody = 16 << 20 // 16 MB

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxExtractBody)

	var req domain.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusOK, domain.ExtractionFailed(gateway.MsgImageTooLarge))
			return
		}
		s.logger.Warn("failed to decode extraction request", "error", err, "request_id", RequestIDFrom(r.Context()))
		s.writeError(w, http.StatusBadRequest, "No image provided")
		return
	}

	result, err := s.service.Extract(r.Context(), &req)
	switch {
	case errors.Is(err, service.ErrNoImage):
		s.writeError(w, http.StatusBadRequest, "No image provided")
		return
	case errors.Is(err, service.ErrExtractionNotConfigured):
		s.writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	case err != nil:
		s.logger.Error("extraction failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		s.writeJSON(w, http.StatusOK, domain.ExtractionFailed(gateway.MsgFailed))
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
