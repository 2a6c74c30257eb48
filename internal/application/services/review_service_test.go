package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicbooking/backend/internal/application/services"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

func TestReviewService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     entities.ReviewCreate
		wantErr bool
	}{
		{name: "valid", req: entities.ReviewCreate{AppointmentID: "a-1", PatientID: "p-1", Rating: 5}},
		{name: "rating too low", req: entities.ReviewCreate{AppointmentID: "a-1", PatientID: "p-1", Rating: 0}, wantErr: true},
		{name: "rating too high", req: entities.ReviewCreate{AppointmentID: "a-1", PatientID: "p-1", Rating: 6}, wantErr: true},
		{name: "missing appointment", req: entities.ReviewCreate{PatientID: "p-1", Rating: 4}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReviewRepository)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil)

			review, err := services.NewReviewService(repo).Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Rating, review.Rating)
			assert.NotEmpty(t, review.ID)
		})
	}
}

func TestReviewService_ListByAppointment(t *testing.T) {
	repo := new(MockReviewRepository)
	repo.On("List", mock.Anything, repositories.ReviewFilter{AppointmentID: "a-1", Limit: repositories.MaxListLimit}).
		Return([]*entities.Review{{ID: "r-1"}}, nil)

	reviews, err := services.NewReviewService(repo).List(context.Background(), "a-1")

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
