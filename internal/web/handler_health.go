package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthChecker is one dependency probed by /healthz.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseChecker pings the outcome log database.
type DatabaseChecker struct {
	DB *sql.DB
}

func (d *DatabaseChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

type healthStatus struct {
	Status    string                 `json:"status"`
	Mode      string                 `json:"mode"`
	Backend   string                 `json:"backend"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]checkStatus `json:"checks"`
}

type checkStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := healthStatus{
		Status:    "healthy",
		Mode:      s.service.Mode(),
		Backend:   s.opts.Backend,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]checkStatus),
	}
	for name, checker := range s.opts.Checks {
		if err := checker.Check(ctx); err != nil {
			s.logger.Warn("health check failed", "check", name, "error", err)
			health.Status = "unhealthy"
			health.Checks[name] = checkStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		health.Checks[name] = checkStatus{Status: "healthy"}
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}
