package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/application/services"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
)

// AuthService defines the login and profile operations used by the handlers
type AuthService interface {
	SendOTP(ctx context.Context, phone string) (*services.OTPResult, error)
	VerifyOTP(ctx context.Context, phone, code string) (*services.AuthResult, error)
	AdminLogin(ctx context.Context, username, password string) (*services.AuthResult, error)
	ChangeAdminPassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	CurrentUser(ctx context.Context, claims *entities.TokenClaims) (interface{}, error)
	UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error)
}

// AuthHandler handles patient OTP login, admin login and the caller's profile
type AuthHandler struct {
	service AuthService
	limiter *RateLimiter
}

// NewAuthHandler creates a new auth handler. limiter may be nil to disable
// OTP rate limiting.
func NewAuthHandler(service AuthService, limiter *RateLimiter) *AuthHandler {
	return &AuthHandler{
		service: service,
		limiter: limiter,
	}
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Name  string `json:"name"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	phone := strings.TrimSpace(req.Phone)

	if h.limiter != nil {
		allowed, retryAfter := h.limiter.Allow(r.Context(), "otp:rate:"+phone)
		if !allowed {
			observability.LoggerFromContext(r.Context()).Warn().
				Str("phone", phone).
				Str("client_ip", clientIP(r)).
				Msg("OTP rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondWithError(w, http.StatusTooManyRequests, "too many OTP requests, try again later")
			return
		}
	}

	result, err := h.service.SendOTP(r.Context(), phone)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// AdminLogin handles POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ChangePassword handles PUT /api/admin/change-password for the calling admin
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangeAdminPassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "تم تغيير كلمة المرور بنجاح")
}

// GetMe handles GET /api/users/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.CurrentUser(r.Context(), middleware.ClaimsFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// UpdateMe handles PUT /api/users/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "admin accounts have no patient profile")
		return
	}

	var update entities.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
