package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const appointmentsTable = "appointments"

var appointmentColumns = []interface{}{
	"id", "patient_id", "patient_name", "patient_phone",
	"doctor_id", "doctor_name", "service_id", "service_name",
	"appointment_date", "status", "notes",
	"reminder_24h_sent", "reminder_3h_sent", "post_visit_sent",
	"created_at", "created_by",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":                appointment.ID,
		"patient_id":        nullString(appointment.PatientID),
		"patient_name":      appointment.PatientName,
		"patient_phone":     appointment.PatientPhone,
		"doctor_id":         appointment.DoctorID,
		"doctor_name":       appointment.DoctorName,
		"service_id":        appointment.ServiceID,
		"service_name":      appointment.ServiceName,
		"appointment_date":  appointment.AppointmentDate,
		"status":            appointment.Status,
		"notes":             appointment.Notes,
		"reminder_24h_sent": appointment.Reminder24hSent,
		"reminder_3h_sent":  appointment.Reminder3hSent,
		"post_visit_sent":   appointment.PostVisitSent,
		"created_at":        appointment.CreatedAt,
		"created_by":        appointment.CreatedBy,
	}

	query, args, err := a.db.Insert(appointmentsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// Update overwrites the mutable fields of an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"doctor_id":         appointment.DoctorID,
		"doctor_name":       appointment.DoctorName,
		"service_id":        appointment.ServiceID,
		"service_name":      appointment.ServiceName,
		"appointment_date":  appointment.AppointmentDate,
		"status":            appointment.Status,
		"notes":             appointment.Notes,
		"reminder_24h_sent": appointment.Reminder24hSent,
		"reminder_3h_sent":  appointment.Reminder3hSent,
		"post_visit_sent":   appointment.PostVisitSent,
	}

	query, args, err := a.db.Update(appointmentsTable).
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	return expectAffected(result, fmt.Sprintf("appointment with id %s not found", appointment.ID))
}

// Delete removes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(appointmentsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	return expectAffected(result, fmt.Sprintf("appointment with id %s not found", id))
}

// List retrieves appointments matching the filter in insertion order
func (a *AppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := applyAppointmentFilter(a.db.Select(appointmentColumns...).From(appointmentsTable), filter).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Limit(uint(clampLimit(filter.Limit)))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*entities.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating appointments", err)
	}

	return appointments, nil
}

// Count counts appointments matching the filter
func (a *AppointmentAdapter) Count(ctx context.Context, filter repositories.AppointmentFilter) (int, error) {
	ds := applyAppointmentFilter(a.db.From(appointmentsTable).Select(goqu.COUNT("*")), filter)

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count appointments", err)
	}
	return count, nil
}

func applyAppointmentFilter(ds *goqu.SelectDataset, filter repositories.AppointmentFilter) *goqu.SelectDataset {
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.PatientID != "" {
		ds = ds.Where(goqu.Ex{"patient_id": filter.PatientID})
	}
	if filter.PatientPhone != "" {
		ds = ds.Where(goqu.Ex{"patient_phone": filter.PatientPhone})
	}
	return ds
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var patientID, notes sql.NullString

	err := row.Scan(
		&appointment.ID,
		&patientID,
		&appointment.PatientName,
		&appointment.PatientPhone,
		&appointment.DoctorID,
		&appointment.DoctorName,
		&appointment.ServiceID,
		&appointment.ServiceName,
		&appointment.AppointmentDate,
		&appointment.Status,
		&notes,
		&appointment.Reminder24hSent,
		&appointment.Reminder3hSent,
		&appointment.PostVisitSent,
		&appointment.CreatedAt,
		&appointment.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	appointment.PatientID = patientID.String
	appointment.Notes = stringPtr(notes)
	return appointment, nil
}
