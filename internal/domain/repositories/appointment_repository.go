package repositories

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// MaxListLimit bounds every list query against the store
const MaxListLimit = 1000

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// Update overwrites the mutable fields of an appointment
	Update(ctx context.Context, appointment *entities.Appointment) error

	// Delete removes an appointment without touching records that reference it
	Delete(ctx context.Context, id string) error

	// List retrieves appointments matching the filter in insertion order
	List(ctx context.Context, filter AppointmentFilter) ([]*entities.Appointment, error)

	// Count counts appointments matching the filter
	Count(ctx context.Context, filter AppointmentFilter) (int, error)
}

// AppointmentFilter defines exact-match filters for listing appointments.
// Empty fields are ignored.
type AppointmentFilter struct {
	Status       entities.AppointmentStatus
	PatientID    string
	PatientPhone string
	Limit        int
}
