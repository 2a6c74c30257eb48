package entities

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentEventType represents what happened to an appointment
type AppointmentEventType string

const (
	AppointmentEventCreated AppointmentEventType = "appointment_created"
	AppointmentEventUpdated AppointmentEventType = "appointment_updated"
	AppointmentEventDeleted AppointmentEventType = "appointment_deleted"
)

// AppointmentEvent is published for the admin dashboard live feed
type AppointmentEvent struct {
	ID            string               `json:"id"`
	AppointmentID string               `json:"appointment_id"`
	EventType     AppointmentEventType `json:"event_type"`
	Status        AppointmentStatus    `json:"status,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
	Appointment   *Appointment         `json:"appointment,omitempty"`
}

// NewAppointmentEvent creates a new appointment event. appointment may be nil
// for deletions.
func NewAppointmentEvent(appointmentID string, eventType AppointmentEventType, appointment *Appointment) *AppointmentEvent {
	event := &AppointmentEvent{
		ID:            uuid.New().String(),
		AppointmentID: appointmentID,
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		Appointment:   appointment,
	}
	if appointment != nil {
		event.Status = appointment.Status
	}
	return event
}
