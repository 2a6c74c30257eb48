package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// CatalogService manages the doctors and treatments appointments refer to
type CatalogService struct {
	doctors  repositories.DoctorRepository
	services repositories.ClinicServiceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(doctors repositories.DoctorRepository, services repositories.ClinicServiceRepository) *CatalogService {
	return &CatalogService{doctors: doctors, services: services}
}

// CreateDoctor adds a doctor
func (s *CatalogService) CreateDoctor(ctx context.Context, req entities.DoctorCreate) (*entities.Doctor, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Specialization) == "" {
		return nil, apperrors.NewValidationError("name and specialization are required")
	}

	days := req.AvailableDays
	if days == nil {
		days = []string{}
	}
	doctor := &entities.Doctor{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		AvailableDays:  days,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// ListDoctors lists doctors in insertion order
func (s *CatalogService) ListDoctors(ctx context.Context) ([]*entities.Doctor, error) {
	return s.doctors.List(ctx, repositories.MaxListLimit)
}

// GetDoctor retrieves a doctor
func (s *CatalogService) GetDoctor(ctx context.Context, id string) (*entities.Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// DeleteDoctor removes a doctor. Existing appointments keep their snapshot name.
func (s *CatalogService) DeleteDoctor(ctx context.Context, id string) error {
	return s.doctors.Delete(ctx, id)
}

// CreateService adds a treatment; a zero duration becomes the default
func (s *CatalogService) CreateService(ctx context.Context, req entities.ClinicServiceCreate) (*entities.ClinicService, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.NameEn) == "" {
		return nil, apperrors.NewValidationError("name and name_en are required")
	}
	if req.DurationMinutes < 0 {
		return nil, apperrors.NewValidationError("duration_minutes must not be negative")
	}
	if req.Price.Valid && req.Price.Decimal.IsNegative() {
		return nil, apperrors.NewValidationError("price must not be negative")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = entities.DefaultServiceDuration
	}
	service := &entities.ClinicService{
		ID:              uuid.New().String(),
		Name:            req.Name,
		NameEn:          req.NameEn,
		Description:     req.Description,
		DurationMinutes: duration,
		Price:           req.Price,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// ListServices lists treatments in insertion order
func (s *CatalogService) ListServices(ctx context.Context) ([]*entities.ClinicService, error) {
	return s.services.List(ctx, repositories.MaxListLimit)
}

// DeleteService removes a treatment
func (s *CatalogService) DeleteService(ctx context.Context, id string) error {
	return s.services.Delete(ctx, id)
}
