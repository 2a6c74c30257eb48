package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Create(ctx context.Context, req entities.AppointmentCreate) (*entities.Appointment, error)
	List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error)
	Get(ctx context.Context, id string) (*entities.Appointment, error)
	Update(ctx context.Context, id string, update entities.AppointmentUpdate) (*entities.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// CreateAppointment handles POST /api/appointments. Patients always book for
// themselves: patient_id and patient_phone come from their token.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req entities.AppointmentCreate
	if !readJSON(w, r, &req) {
		return
	}

	if claims.IsAdmin() {
		if req.CreatedBy == "" {
			req.CreatedBy = entities.CreatedByAdmin
		}
	} else {
		req.PatientID = claims.UserID
		req.PatientPhone = claims.Phone
		req.CreatedBy = entities.CreatedByPatient
	}

	if !checkValid(w, &req) {
		return
	}

	appointment, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/appointments?status&patient_id&patient_phone.
// Patients only ever see bookings made under their own phone.
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	query := r.URL.Query()

	filter := repositories.AppointmentFilter{
		Status:       entities.AppointmentStatus(query.Get("status")),
		PatientID:    query.Get("patient_id"),
		PatientPhone: query.Get("patient_phone"),
	}
	if !claims.IsAdmin() {
		filter.PatientID = ""
		filter.PatientPhone = claims.Phone
	}

	appointments, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	appointment, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !claims.IsAdmin() && !ownsAppointment(claims, appointment) {
		respondWithAppError(w, r, apperrors.NewNotFoundError("Appointment not found"))
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// UpdateAppointment handles PUT /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var update entities.AppointmentUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	appointment, err := h.service.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Appointment deleted successfully")
}

func ownsAppointment(claims *entities.TokenClaims, appointment *entities.Appointment) bool {
	if claims.Phone != "" && appointment.PatientPhone == claims.Phone {
		return true
	}
	return appointment.PatientID != "" && appointment.PatientID == claims.UserID
}
