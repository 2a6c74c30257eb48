package routes

import (
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux  *http.ServeMux
	auth *middleware.Auth

	healthHandler       *handlers.HealthHandler
	authHandler         *handlers.AuthHandler
	catalogHandler      *handlers.CatalogHandler
	appointmentHandler  *handlers.AppointmentHandler
	campaignHandler     *handlers.CampaignHandler
	notificationHandler *handlers.NotificationHandler
	reviewHandler       *handlers.ReviewHandler
	statsHandler        *handlers.StatsHandler
	sseHandler          *handlers.SSEHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	auth *middleware.Auth,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	appointmentHandler *handlers.AppointmentHandler,
	campaignHandler *handlers.CampaignHandler,
	notificationHandler *handlers.NotificationHandler,
	reviewHandler *handlers.ReviewHandler,
	statsHandler *handlers.StatsHandler,
	sseHandler *handlers.SSEHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:  http.NewServeMux(),
		auth: auth,

		healthHandler:       healthHandler,
		authHandler:         authHandler,
		catalogHandler:      catalogHandler,
		appointmentHandler:  appointmentHandler,
		campaignHandler:     campaignHandler,
		notificationHandler: notificationHandler,
		reviewHandler:       reviewHandler,
		statsHandler:        statsHandler,
		sseHandler:          sseHandler,

		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	user := r.auth.RequireAuth
	admin := r.auth.RequireAdmin

	// Health check endpoint
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/send-otp", r.authHandler.SendOTP)
	r.mux.HandleFunc("POST /api/auth/verify-otp", r.authHandler.VerifyOTP)
	r.mux.HandleFunc("POST /api/auth/admin/login", r.authHandler.AdminLogin)
	r.mux.HandleFunc("PUT /api/admin/change-password", admin(r.authHandler.ChangePassword))

	// Profile endpoints
	r.mux.HandleFunc("GET /api/users/me", user(r.authHandler.GetMe))
	r.mux.HandleFunc("PUT /api/users/me", user(r.authHandler.UpdateMe))

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/doctors", r.catalogHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/{id}", r.catalogHandler.GetDoctor)
	r.mux.HandleFunc("POST /api/doctors", admin(r.catalogHandler.CreateDoctor))
	r.mux.HandleFunc("DELETE /api/doctors/{id}", admin(r.catalogHandler.DeleteDoctor))

	r.mux.HandleFunc("GET /api/services", r.catalogHandler.ListServices)
	r.mux.HandleFunc("POST /api/services", admin(r.catalogHandler.CreateService))
	r.mux.HandleFunc("DELETE /api/services/{id}", admin(r.catalogHandler.DeleteService))

	// Appointment endpoints
	r.mux.HandleFunc("POST /api/appointments", user(r.appointmentHandler.CreateAppointment))
	r.mux.HandleFunc("GET /api/appointments", user(r.appointmentHandler.ListAppointments))
	r.mux.HandleFunc("GET /api/appointments/{id}", user(r.appointmentHandler.GetAppointment))
	r.mux.HandleFunc("PUT /api/appointments/{id}", admin(r.appointmentHandler.UpdateAppointment))
	r.mux.HandleFunc("DELETE /api/appointments/{id}", admin(r.appointmentHandler.DeleteAppointment))
	r.mux.HandleFunc("GET /api/admin/appointments/stream", admin(r.sseHandler.StreamAppointments))

	// Campaign endpoints
	r.mux.HandleFunc("POST /api/campaigns", admin(r.campaignHandler.CreateCampaign))
	r.mux.HandleFunc("GET /api/campaigns", admin(r.campaignHandler.ListCampaigns))
	r.mux.HandleFunc("POST /api/campaigns/{id}/send", admin(r.campaignHandler.SendCampaign))

	// Notification endpoints
	r.mux.HandleFunc("GET /api/notifications", user(r.notificationHandler.ListNotifications))
	r.mux.HandleFunc("PUT /api/notifications/{id}/read", user(r.notificationHandler.MarkRead))
	r.mux.HandleFunc("POST /api/notifications", admin(r.notificationHandler.CreateNotification))

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", user(r.reviewHandler.CreateReview))
	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListReviews)

	// Stats endpoints
	r.mux.HandleFunc("GET /api/stats", admin(r.statsHandler.GetStats))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
