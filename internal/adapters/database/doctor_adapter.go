package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const doctorsTable = "doctors"

var doctorColumns = []interface{}{"id", "name", "specialization", "phone", "available_days", "created_at"}

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new doctor
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	query, args, err := a.db.Insert(doctorsTable).Rows(goqu.Record{
		"id":             doctor.ID,
		"name":           doctor.Name,
		"specialization": doctor.Specialization,
		"phone":          doctor.Phone,
		"available_days": pq.StringArray(doctor.AvailableDays),
		"created_at":     doctor.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create doctor", err)
	}
	return nil
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}
	return doctor, nil
}

// List retrieves up to limit doctors in insertion order
func (a *DoctorAdapter) List(ctx context.Context, limit int) ([]*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Order(goqu.I("created_at").Asc()).
		Limit(uint(clampLimit(limit))).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	doctors := make([]*entities.Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating doctors", err)
	}
	return doctors, nil
}

// Delete removes a doctor. Appointments keep their copied doctor name.
func (a *DoctorAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(doctorsTable).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete doctor", err)
	}
	return expectAffected(result, fmt.Sprintf("doctor with id %s not found", id))
}

// Count counts doctors
func (a *DoctorAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From(doctorsTable).Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count doctors", err)
	}
	return count, nil
}

func scanDoctor(row rowScanner) (*entities.Doctor, error) {
	doctor := &entities.Doctor{}
	var phone sql.NullString
	var days pq.StringArray
	if err := row.Scan(&doctor.ID, &doctor.Name, &doctor.Specialization, &phone, &days, &doctor.CreatedAt); err != nil {
		return nil, err
	}
	doctor.Phone = stringPtr(phone)
	doctor.AvailableDays = []string(days)
	if doctor.AvailableDays == nil {
		doctor.AvailableDays = []string{}
	}
	return doctor, nil
}
