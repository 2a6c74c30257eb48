package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor is a practitioner appointments can be booked with
type Doctor struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Specialization string    `json:"specialization" db:"specialization"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	AvailableDays  []string  `json:"available_days" db:"available_days"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DoctorCreate is the request to add a doctor to the catalog
type DoctorCreate struct {
	Name           string   `json:"name" validate:"required"`
	Specialization string   `json:"specialization" validate:"required"`
	Phone          *string  `json:"phone,omitempty"`
	AvailableDays  []string `json:"available_days"`
}

// DefaultServiceDuration applies when a service is created without a duration
const DefaultServiceDuration = 30

// ClinicService is a treatment offered by the clinic
type ClinicService struct {
	ID              string              `json:"id" db:"id"`
	Name            string              `json:"name" db:"name"`
	NameEn          string              `json:"name_en" db:"name_en"`
	Description     *string             `json:"description,omitempty" db:"description"`
	DurationMinutes int                 `json:"duration_minutes" db:"duration_minutes"`
	Price           decimal.NullDecimal `json:"price" db:"price"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
}

// ClinicServiceCreate is the request to add a service to the catalog
type ClinicServiceCreate struct {
	Name            string              `json:"name" validate:"required"`
	NameEn          string              `json:"name_en" validate:"required"`
	Description     *string             `json:"description,omitempty"`
	DurationMinutes int                 `json:"duration_minutes" validate:"gte=0"`
	Price           decimal.NullDecimal `json:"price"`
}

// ServiceType is one of the standard dental treatments seeded into the catalog
type ServiceType struct {
	Name   string
	NameEn string
}

// StandardServiceTypes lists the treatments the clinic offers out of the box
var StandardServiceTypes = []ServiceType{
	{Name: "تنظيف", NameEn: "Cleaning"},
	{Name: "حشو", NameEn: "Filling"},
	{Name: "خلع", NameEn: "Extraction"},
	{Name: "علاج عصب", NameEn: "Root Canal"},
	{Name: "تبييض", NameEn: "Whitening"},
	{Name: "تقويم", NameEn: "Orthodontics"},
	{Name: "زراعة", NameEn: "Implants"},
	{Name: "تجميل", NameEn: "Cosmetic"},
}
