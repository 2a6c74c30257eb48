package entities

import "time"

// Review is a patient's rating of a visit. Several reviews may exist for
// one appointment.
type Review struct {
	ID            string    `json:"id" db:"id"`
	AppointmentID string    `json:"appointment_id" db:"appointment_id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	Rating        int       `json:"rating" db:"rating"`
	Comment       *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ReviewCreate is the request to submit a review
type ReviewCreate struct {
	AppointmentID string  `json:"appointment_id" validate:"required"`
	PatientID     string  `json:"patient_id"`
	Rating        int     `json:"rating" validate:"min=1,max=5"`
	Comment       *string `json:"comment,omitempty"`
}

// Stats is the dashboard summary
type Stats struct {
	TotalAppointments     int     `json:"total_appointments"`
	PendingAppointments   int     `json:"pending_appointments"`
	ConfirmedAppointments int     `json:"confirmed_appointments"`
	CompletedAppointments int     `json:"completed_appointments"`
	CancelledAppointments int     `json:"cancelled_appointments"`
	TotalPatients         int     `json:"total_patients"`
	TotalDoctors          int     `json:"total_doctors"`
	AvgRating             float64 `json:"avg_rating"`
}
