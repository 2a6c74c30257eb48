package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		database   handlers.Pinger
		cache      handlers.Pinger
		wantCode   int
		wantStatus string
	}{
		{name: "healthy", database: up, cache: up, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "no cache configured", database: up, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "cache down", database: up, cache: down, wantCode: http.StatusOK, wantStatus: "degraded"},
		{name: "database down", database: down, cache: up, wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewHealthHandler(tt.database, tt.cache)

			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]interface{}
			decodeBody(t, w, &body)
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}
