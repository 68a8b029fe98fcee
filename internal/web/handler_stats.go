package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/vbonduro/foodiq/internal/domain"
)

const (
	defaultStatsWindow = 24 * time.Hour
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// StatsSource summarizes recorded outcomes; store.OutcomeStore implements it.
type StatsSource interface {
	Summary(ctx context.Context, since time.Time) ([]domain.RouteSummary, error)
	Recent(ctx context.Context, limit int) ([]*domain.Outcome, error)
}

type recentOutcome struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Route      string    `json:"route"`
	CatalogKey string    `json:"catalogKey,omitempty"`
	Verdict    string    `json:"verdict,omitempty"`
	Error      string    `json:"error,omitempty"`
	ArchiveKey string    `json:"archiveKey,omitempty"`
	DurationMS int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

type statsResponse struct {
	Since  time.Time             `json:"since"`
	Routes []domain.RouteSummary `json:"routes"`
	Recent []recentOutcome       `json:"recent"`
}

// handleStats answers GET /api/stats?since=<duration>&recent=<n>.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.Stats == nil {
		s.writeError(w, http.StatusNotFound, "outcome log disabled")
		return
	}

	window := defaultStatsWindow
	if raw := r.URL.Query().Get("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid since duration")
			return
		}
		window = d
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxRecentLimit {
			s.writeError(w, http.StatusBadRequest, "invalid recent count")
			return
		}
		limit = n
	}

	since := time.Now().Add(-window)
	routes, err := s.opts.Stats.Summary(r.Context(), since)
	if err != nil {
		s.logger.Error("failed to summarize outcomes", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	outcomes, err := s.opts.Stats.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list recent outcomes", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	recent := make([]recentOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		recent = append(recent, recentOutcome{
			ID:         o.ID,
			Kind:       string(o.Kind),
			Route:      string(o.Route),
			CatalogKey: o.CatalogKey,
			Verdict:    string(o.Verdict),
			Error:      o.Error,
			ArchiveKey: o.ArchiveKey,
			DurationMS: o.Duration.Milliseconds(),
			CreatedAt:  o.CreatedAt.UTC(),
		})
	}
	s.writeJSON(w, http.StatusOK, statsResponse{Since: since.UTC(), Routes: routes, Recent: recent})
}
