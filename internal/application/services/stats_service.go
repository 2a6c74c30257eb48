package services

import (
	"context"
	"math"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"golang.org/x/sync/errgroup"
)

// StatsService builds the admin dashboard summary
type StatsService struct {
	appointments repositories.AppointmentRepository
	users        repositories.UserRepository
	doctors      repositories.DoctorRepository
	reviews      repositories.ReviewRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	appointments repositories.AppointmentRepository,
	users repositories.UserRepository,
	doctors repositories.DoctorRepository,
	reviews repositories.ReviewRepository,
) *StatsService {
	return &StatsService{
		appointments: appointments,
		users:        users,
		doctors:      doctors,
		reviews:      reviews,
	}
}

// Get counts appointments per status, patients and doctors, and averages all
// review ratings. The average is 0 when there are no reviews.
func (s *StatsService) Get(ctx context.Context) (*entities.Stats, error) {
	stats := &entities.Stats{}
	g, ctx := errgroup.WithContext(ctx)

	countAppointments := func(dst *int, status entities.AppointmentStatus) {
		g.Go(func() error {
			n, err := s.appointments.Count(ctx, repositories.AppointmentFilter{Status: status})
			*dst = n
			return err
		})
	}
	countAppointments(&stats.TotalAppointments, "")
	countAppointments(&stats.PendingAppointments, entities.AppointmentStatusPending)
	countAppointments(&stats.ConfirmedAppointments, entities.AppointmentStatusConfirmed)
	countAppointments(&stats.CompletedAppointments, entities.AppointmentStatusCompleted)
	countAppointments(&stats.CancelledAppointments, entities.AppointmentStatusCancelled)

	g.Go(func() error {
		n, err := s.users.CountByRole(ctx, entities.RolePatient)
		stats.TotalPatients = n
		return err
	})
	g.Go(func() error {
		n, err := s.doctors.Count(ctx)
		stats.TotalDoctors = n
		return err
	})
	g.Go(func() error {
		sum, count, err := s.reviews.RatingSummary(ctx)
		if err != nil {
			return err
		}
		stats.AvgRating = averageRating(sum, count)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func averageRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}
