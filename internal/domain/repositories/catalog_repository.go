package repositories

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor catalog operations
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entities.Doctor) error
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)
	List(ctx context.Context, limit int) ([]*entities.Doctor, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ClinicServiceRepository defines the interface for service catalog operations
type ClinicServiceRepository interface {
	Create(ctx context.Context, service *entities.ClinicService) error
	GetByID(ctx context.Context, id string) (*entities.ClinicService, error)
	List(ctx context.Context, limit int) ([]*entities.ClinicService, error)
	Delete(ctx context.Context, id string) error
}
