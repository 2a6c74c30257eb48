package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// CatalogService defines the doctor and service operations used by the handler
type CatalogService interface {
	CreateDoctor(ctx context.Context, req entities.DoctorCreate) (*entities.Doctor, error)
	ListDoctors(ctx context.Context) ([]*entities.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*entities.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error
	CreateService(ctx context.Context, req entities.ClinicServiceCreate) (*entities.ClinicService, error)
	ListServices(ctx context.Context) ([]*entities.ClinicService, error)
	DeleteService(ctx context.Context, id string) error
}

// CatalogHandler handles the doctor and service catalog
type CatalogHandler struct {
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateDoctor handles POST /api/doctors
func (h *CatalogHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req entities.DoctorCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	doctor, err := h.service.CreateDoctor(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, doctor)
}

// ListDoctors handles GET /api/doctors
func (h *CatalogHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.ListDoctors(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctors)
}

// GetDoctor handles GET /api/doctors/{id}
func (h *CatalogHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.service.GetDoctor(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}

// DeleteDoctor handles DELETE /api/doctors/{id}
func (h *CatalogHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDoctor(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Doctor deleted successfully")
}

// CreateService handles POST /api/services
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req entities.ClinicServiceCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.CreateService(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, service)
}

// ListServices handles GET /api/services
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListServices(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

// DeleteService handles DELETE /api/services/{id}
func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteService(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Service deleted successfully")
}
