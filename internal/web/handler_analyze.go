package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vbonduro/foodiq/internal/domain"
	"github.com/vbonduro/foodiq/internal/service"
)

const maxAnalyzeBody = 1 << 20 // 1 MB

// analyzeRequest is the wire form of domain.AnalysisRequest. A context that
// is not an analysis object is dropped rather than failing the request.
type analyzeRequest struct {
	Ingredients string          `json:"ingredients"`
	FollowUp    string          `json:"followUp"`
	Context     json.RawMessage `json:"context"`
}

func (s *Server) decodeContext(r *http.Request, raw json.RawMessage) *domain.AnalysisResult {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var prior domain.AnalysisResult
	if err := json.Unmarshal(raw, &prior); err != nil {
		s.logger.Warn("ignoring malformed analysis context", "error", err, "request_id", RequestIDFrom(r.Context()))
		return nil
	}
	return &prior
}

// handleAnalyze answers POST /api/analyze. Apart from missing ingredients it
// always replies 200, degrading to catalog answers when anything goes wrong.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)

	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("failed to decode analysis request", "error", err, "request_id", RequestIDFrom(r.Context()))
		s.writeJSON(w, http.StatusOK, s.service.DefaultAnalysis(r.Context()))
		return
	}

	req := &domain.AnalysisRequest{
		Ingredients: body.Ingredients,
		FollowUp:    body.FollowUp,
		Context:     s.decodeContext(r, body.Context),
	}

	reply, err := s.service.Analyze(r.Context(), req)
	if errors.Is(err, service.ErrNoIngredients) {
		s.writeError(w, http.StatusBadRequest, "No ingredients provided")
		return
	}
	if err != nil {
		s.logger.Error("analysis failed", "error", err, "request_id", RequestIDFrom(r.Context()))
		s.writeJSON(w, http.StatusOK, s.service.DefaultAnalysis(r.Context()))
		return
	}

	s.writeJSON(w, http.StatusOK, reply.Body())
}
