package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const (
	confirmationTitle      = "تم تأكيد موعدك"
	confirmationDateLayout = "2006-01-02 15:04"
)

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo                repositories.AppointmentRepository
	doctors             repositories.DoctorRepository
	services            repositories.ClinicServiceRepository
	notificationService *NotificationService
	eventBus            providers.EventBus
	now                 func() time.Time
}

// NewAppointmentService creates a new appointment service. eventBus may be nil.
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	doctors repositories.DoctorRepository,
	services repositories.ClinicServiceRepository,
	notificationService *NotificationService,
	eventBus providers.EventBus,
) *AppointmentService {
	return &AppointmentService{
		repo:                repo,
		doctors:             doctors,
		services:            services,
		notificationService: notificationService,
		eventBus:            eventBus,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// Create books an appointment. The doctor and service must exist; their names
// are copied onto the booking.
func (s *AppointmentService) Create(ctx context.Context, req entities.AppointmentCreate) (*entities.Appointment, error) {
	if strings.TrimSpace(req.PatientName) == "" || strings.TrimSpace(req.PatientPhone) == "" {
		return nil, apperrors.NewValidationError("patient_name and patient_phone are required")
	}
	if req.AppointmentDate.IsZero() {
		return nil, apperrors.NewValidationError("appointment_date is required")
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNotFoundError("Doctor not found")
		}
		return nil, err
	}
	service, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewNotFoundError("Service not found")
		}
		return nil, err
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = entities.CreatedByPatient
	}

	appointment := &entities.Appointment{
		ID:              uuid.New().String(),
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		AppointmentDate: req.AppointmentDate.UTC(),
		Status:          entities.AppointmentStatusPending,
		Notes:           req.Notes,
		CreatedAt:       s.now(),
		CreatedBy:       createdBy,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publish(ctx, entities.AppointmentEventCreated, appointment.ID, appointment)
	return appointment, nil
}

// List returns appointments matching the filter in booking order
func (s *AppointmentService) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", filter.Status))
	}
	filter.Limit = repositories.MaxListLimit
	return s.repo.List(ctx, filter)
}

// Get retrieves an appointment
func (s *AppointmentService) Get(ctx context.Context, id string) (*entities.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the fields present in update. A doctor or service id that
// does not resolve is still written, leaving the copied name unchanged.
// Setting the status to confirmed notifies the patient once per call.
func (s *AppointmentService) Update(ctx context.Context, id string, update entities.AppointmentUpdate) (*entities.Appointment, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *update.Status))
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return appointment, nil
	}

	if update.DoctorID != nil {
		appointment.DoctorID = *update.DoctorID
		doctor, err := s.doctors.GetByID(ctx, *update.DoctorID)
		switch {
		case err == nil:
			appointment.DoctorName = doctor.Name
		case !apperrors.IsType(err, apperrors.ErrorTypeNotFound):
			return nil, err
		}
	}
	if update.ServiceID != nil {
		appointment.ServiceID = *update.ServiceID
		service, err := s.services.GetByID(ctx, *update.ServiceID)
		switch {
		case err == nil:
			appointment.ServiceName = service.Name
		case !apperrors.IsType(err, apperrors.ErrorTypeNotFound):
			return nil, err
		}
	}
	if update.AppointmentDate != nil {
		appointment.AppointmentDate = update.AppointmentDate.UTC()
	}
	if update.Status != nil {
		appointment.Status = *update.Status
	}
	if update.Notes != nil {
		notes := *update.Notes
		appointment.Notes = &notes
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	if update.Status != nil && *update.Status == entities.AppointmentStatusConfirmed {
		s.notifyConfirmed(ctx, appointment)
	}

	s.publish(ctx, entities.AppointmentEventUpdated, appointment.ID, appointment)
	return appointment, nil
}

// Delete removes an appointment. Reviews and notifications that reference it are kept.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, entities.AppointmentEventDeleted, id, nil)
	return nil
}

// notifyConfirmed tells the patient their booking was confirmed. The account
// is found by phone, falling back to patient_id; with neither there is
// nobody to notify.
func (s *AppointmentService) notifyConfirmed(ctx context.Context, appointment *entities.Appointment) {
	if s.notificationService == nil {
		return
	}
	logger := observability.LoggerFromContext(ctx)

	user, err := s.notificationService.ResolveTarget(ctx, entities.DispatchTarget{
		Phone:  appointment.PatientPhone,
		UserID: appointment.PatientID,
	})
	if err != nil {
		logger.Error().Err(err).Str("appointment_id", appointment.ID).Msg("failed to resolve confirmation recipient")
		return
	}
	if user == nil {
		logger.Info().Str("appointment_id", appointment.ID).Msg("no account for patient phone, skipping confirmation notification")
		return
	}

	_, err = s.notificationService.DispatchToUser(ctx, user, entities.DispatchRequest{
		Title:         confirmationTitle,
		Message:       fmt.Sprintf("تم تأكيد موعدك مع د. %s في %s", appointment.DoctorName, appointment.AppointmentDate.Format(confirmationDateLayout)),
		Type:          entities.NotificationTypeReminder,
		AppointmentID: appointment.ID,
	})
	if err != nil {
		logger.Error().Err(err).Str("appointment_id", appointment.ID).Msg("failed to store confirmation notification")
	}
}

func (s *AppointmentService) publish(ctx context.Context, eventType entities.AppointmentEventType, id string, appointment *entities.Appointment) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewAppointmentEvent(id, eventType, appointment)
	if err := s.eventBus.Publish(ctx, providers.EventChannelAppointments, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("appointment_id", id).Msg("failed to publish appointment event")
	}
}
