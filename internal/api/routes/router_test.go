package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/clinicbooking/backend/internal/adapters/events"
	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

type staticDecoder map[string]*entities.TokenClaims

func (d staticDecoder) Decode(token string) (*entities.TokenClaims, error) {
	if claims, ok := d[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type emptyStats struct{}

func (emptyStats) Get(context.Context) (*entities.Stats, error) { return &entities.Stats{}, nil }

func newTestRouter() http.Handler {
	auth := middleware.NewAuth(staticDecoder{
		"patient": {UserID: "user-1", Phone: "+963900000001", Role: entities.RolePatient},
		"admin":   {UserID: "admin-1", Username: "admin", Role: entities.RoleAdmin},
	})

	router := NewRouter(
		auth,
		handlers.NewHealthHandler(okPinger{}, nil),
		handlers.NewAuthHandler(nil, nil),
		handlers.NewCatalogHandler(nil),
		handlers.NewAppointmentHandler(nil),
		handlers.NewCampaignHandler(nil),
		handlers.NewNotificationHandler(nil),
		handlers.NewReviewHandler(nil),
		handlers.NewStatsHandler(emptyStats{}),
		handlers.NewSSEHandler(events.NewMemoryEventBus()),
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_AccessControl(t *testing.T) {
	handler := newTestRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "stats needs a token", method: http.MethodGet, path: "/api/stats", wantCode: http.StatusUnauthorized},
		{name: "stats is admin only", method: http.MethodGet, path: "/api/stats", token: "patient", wantCode: http.StatusForbidden},
		{name: "admin reads stats", method: http.MethodGet, path: "/api/stats", token: "admin", wantCode: http.StatusOK},
		{name: "patients cannot add doctors", method: http.MethodPost, path: "/api/doctors", token: "patient", wantCode: http.StatusForbidden},
		{name: "patients cannot update appointments", method: http.MethodPut, path: "/api/appointments/apt-1", token: "patient", wantCode: http.StatusForbidden},
		{name: "appointments need a token", method: http.MethodGet, path: "/api/appointments", wantCode: http.StatusUnauthorized},
		{name: "campaigns are admin only", method: http.MethodPost, path: "/api/campaigns/c-1/send", token: "patient", wantCode: http.StatusForbidden},
		{name: "stream is admin only", method: http.MethodGet, path: "/api/admin/appointments/stream", token: "patient", wantCode: http.StatusForbidden},
		{name: "unknown route", method: http.MethodGet, path: "/api/facilities", wantCode: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPatch, path: "/api/doctors", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRouter_PreflightSkipsAuth(t *testing.T) {
	handler := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/stats", nil)
	req.Header.Set("Origin", "https://clinic.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
