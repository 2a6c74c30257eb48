package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicbooking/backend/internal/application/services"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

func TestCatalogService_CreateDoctor(t *testing.T) {
	doctors := new(MockDoctorRepository)
	service := services.NewCatalogService(doctors, new(MockClinicServiceRepository))
	doctors.On("Create", mock.Anything, mock.Anything).Return(nil)

	doctor, err := service.CreateDoctor(context.Background(), entities.DoctorCreate{Name: "Sara", Specialization: "Orthodontics"})

	require.NoError(t, err)
	assert.NotEmpty(t, doctor.ID)
	assert.Equal(t, []string{}, doctor.AvailableDays)

	_, err = service.CreateDoctor(context.Background(), entities.DoctorCreate{Name: "Sara"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	doctors.AssertNumberOfCalls(t, "Create", 1)
}

func TestCatalogService_CreateService(t *testing.T) {
	clinicServices := new(MockClinicServiceRepository)
	service := services.NewCatalogService(new(MockDoctorRepository), clinicServices)
	clinicServices.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := service.CreateService(context.Background(), entities.ClinicServiceCreate{Name: "تنظيف", NameEn: "Cleaning"})
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultServiceDuration, created.DurationMinutes)
	assert.False(t, created.Price.Valid)

	_, err = service.CreateService(context.Background(), entities.ClinicServiceCreate{
		Name:   "تبييض",
		NameEn: "Whitening",
		Price:  decimal.NewNullDecimal(decimal.NewFromInt(-1)),
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCatalogService_ListUsesListLimit(t *testing.T) {
	doctors := new(MockDoctorRepository)
	clinicServices := new(MockClinicServiceRepository)
	service := services.NewCatalogService(doctors, clinicServices)
	doctors.On("List", mock.Anything, repositories.MaxListLimit).Return([]*entities.Doctor{{ID: "d-1"}}, nil)
	clinicServices.On("List", mock.Anything, repositories.MaxListLimit).Return([]*entities.ClinicService{}, nil)

	list, err := service.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = service.ListServices(context.Background())
	require.NoError(t, err)
	clinicServices.AssertExpectations(t)
}
