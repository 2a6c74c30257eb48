package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// IsValid reports whether s is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// AppointmentCreator records who entered the booking
type AppointmentCreator string

const (
	CreatedByPatient AppointmentCreator = "patient"
	CreatedByAdmin   AppointmentCreator = "admin"
)

// Appointment is a booking of a clinic service with a doctor.
// DoctorName and ServiceName are copied from the catalog when the booking is
// written and are only refreshed when DoctorID or ServiceID change.
// PatientID is empty for walk-in bookings entered by staff; PatientPhone is
// always set and is what links a booking to a patient account.
type Appointment struct {
	ID              string             `json:"id" db:"id"`
	PatientID       string             `json:"patient_id" db:"patient_id"`
	PatientName     string             `json:"patient_name" db:"patient_name"`
	PatientPhone    string             `json:"patient_phone" db:"patient_phone"`
	DoctorID        string             `json:"doctor_id" db:"doctor_id"`
	DoctorName      string             `json:"doctor_name" db:"doctor_name"`
	ServiceID       string             `json:"service_id" db:"service_id"`
	ServiceName     string             `json:"service_name" db:"service_name"`
	AppointmentDate time.Time          `json:"appointment_date" db:"appointment_date"`
	Status          AppointmentStatus  `json:"status" db:"status"`
	Notes           *string            `json:"notes,omitempty" db:"notes"`
	Reminder24hSent bool               `json:"reminder_24h_sent" db:"reminder_24h_sent"`
	Reminder3hSent  bool               `json:"reminder_3h_sent" db:"reminder_3h_sent"`
	PostVisitSent   bool               `json:"post_visit_sent" db:"post_visit_sent"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	CreatedBy       AppointmentCreator `json:"created_by" db:"created_by"`
}

// AppointmentCreate is the booking request accepted by the appointment engine
type AppointmentCreate struct {
	PatientID       string             `json:"patient_id"`
	PatientName     string             `json:"patient_name" validate:"required"`
	PatientPhone    string             `json:"patient_phone" validate:"required"`
	DoctorID        string             `json:"doctor_id" validate:"required"`
	ServiceID       string             `json:"service_id" validate:"required"`
	AppointmentDate BookingTime        `json:"appointment_date" validate:"required"`
	Notes           *string            `json:"notes,omitempty"`
	CreatedBy       AppointmentCreator `json:"created_by" validate:"omitempty,oneof=patient admin"`
}

// AppointmentUpdate carries a partial update; nil fields are left untouched
type AppointmentUpdate struct {
	DoctorID        *string            `json:"doctor_id,omitempty"`
	ServiceID       *string            `json:"service_id,omitempty"`
	AppointmentDate *BookingTime       `json:"appointment_date,omitempty"`
	Status          *AppointmentStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Notes           *string            `json:"notes,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (u AppointmentUpdate) IsEmpty() bool {
	return u.DoctorID == nil && u.ServiceID == nil && u.AppointmentDate == nil && u.Status == nil && u.Notes == nil
}
