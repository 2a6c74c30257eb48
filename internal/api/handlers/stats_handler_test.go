package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

type statsFunc func(ctx context.Context) (*entities.Stats, error)

func (f statsFunc) Get(ctx context.Context) (*entities.Stats, error) { return f(ctx) }

func TestStatsHandler_GetStats(t *testing.T) {
	handler := handlers.NewStatsHandler(statsFunc(func(ctx context.Context) (*entities.Stats, error) {
		return &entities.Stats{TotalAppointments: 12, PendingAppointments: 4, TotalPatients: 9, TotalDoctors: 3, AvgRating: 4.67}, nil
	}))

	w := httptest.NewRecorder()
	handler.GetStats(w, newRequest(http.MethodGet, "/api/stats", "", adminClaims))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decodeBody(t, w, &body)
	assert.Equal(t, float64(12), body["total_appointments"])
	assert.Equal(t, 4.67, body["avg_rating"])
}

func TestStatsHandler_GetStats_Error(t *testing.T) {
	handler := handlers.NewStatsHandler(statsFunc(func(ctx context.Context) (*entities.Stats, error) {
		return nil, apperrors.NewInternalError("failed to count appointments", errors.New("timeout"))
	}))

	w := httptest.NewRecorder()
	handler.GetStats(w, newRequest(http.MethodGet, "/api/stats", "", adminClaims))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to count appointments", errorMessage(t, w))
}
