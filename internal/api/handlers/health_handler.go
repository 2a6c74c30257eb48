package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the health check can ping
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of the API and its dependencies
type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	status, code := "healthy", http.StatusOK

	if err := h.database.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	if h.cache != nil {
		checks["cache"] = "ok"
		// A cache failure only degrades the status.
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			if code == http.StatusOK {
				status = "degraded"
			}
		}
	}

	respondWithJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
