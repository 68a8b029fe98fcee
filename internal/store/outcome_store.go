package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/foodiq/internal/domain"
)

type OutcomeStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewOutcomeStore(db *sql.DB) *OutcomeStore {
	return &OutcomeStore{db: db, now: time.Now}
}

// Record inserts o, assigning an ID and creation time when they are unset.
func (s *OutcomeStore) Record(ctx context.Context, o *domain.Outcome) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (id, kind, route, catalog_key, verdict, error, archive_key, duration_ms, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, string(o.Kind), string(o.Route), o.CatalogKey, string(o.Verdict), o.Error, o.ArchiveKey,
		o.Duration.Milliseconds(), o.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// Summary groups outcomes created at or after since by kind and route.
func (s *OutcomeStore) Summary(ctx context.Context, since time.Time) ([]domain.RouteSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, route, COUNT(*), AVG(duration_ms) FROM outcomes
		WHERE created_at_ms >= ?
		GROUP BY kind, route
		ORDER BY kind, route
	`, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize outcomes: %w", err)
	}
	defer rows.Close()

	summaries := []domain.RouteSummary{}
	for rows.Next() {
		var rs domain.RouteSummary
		var kind, route string
		if err := rows.Scan(&kind, &route, &rs.Count, &rs.AvgDurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan outcome summary: %w", err)
		}
		rs.Kind = domain.Kind(kind)
		rs.Route = domain.Route(route)
		summaries = append(summaries, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome summaries: %w", err)
	}
	return summaries, nil
}

// Recent returns up to limit outcomes, newest first.
func (s *OutcomeStore) Recent(ctx context.Context, limit int) ([]*domain.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, route, catalog_key, verdict, error, archive_key, duration_ms, created_at_ms
		FROM outcomes ORDER BY created_at_ms DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*domain.Outcome
	for rows.Next() {
		o := &domain.Outcome{}
		var kind, route, verdict string
		var durationMS, createdMS int64
		if err := rows.Scan(&o.ID, &kind, &route, &o.CatalogKey, &verdict, &o.Error, &o.ArchiveKey, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Kind = domain.Kind(kind)
		o.Route = domain.Route(route)
		o.Verdict = domain.Verdict(verdict)
		o.Duration = time.Duration(durationMS) * time.Millisecond
		o.CreatedAt = time.UnixMilli(createdMS)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcomes: %w", err)
	}
	return outcomes, nil
}
