package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const otpDigits = 6

// AuthOptions configures OTP issuance and admin password policy
type AuthOptions struct {
	OTPTTL            time.Duration
	DevMode           bool
	MinPasswordLength int
}

// OTPResult is returned by SendOTP. OTP is only filled in dev mode.
type OTPResult struct {
	Message string `json:"message"`
	Phone   string `json:"phone"`
	OTP     string `json:"otp,omitempty"`
}

// AuthResult carries an access token and the authenticated account
type AuthResult struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// AdminProfile is the admin account as returned to clients
type AdminProfile struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Role     entities.UserRole `json:"role"`
	Username string            `json:"username"`
}

// AuthService handles phone OTP login for patients and password login for admins
type AuthService struct {
	users      repositories.UserRepository
	admins     repositories.AdminUserRepository
	otps       repositories.OTPRepository
	tokens     providers.TokenIssuer
	hasher     providers.PasswordHasher
	otpChannel providers.OTPChannel
	opts       AuthOptions
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewAuthService creates a new auth service. otpChannel may be nil, in which
// case codes are only stored.
func NewAuthService(
	users repositories.UserRepository,
	admins repositories.AdminUserRepository,
	otps repositories.OTPRepository,
	tokens providers.TokenIssuer,
	hasher providers.PasswordHasher,
	otpChannel providers.OTPChannel,
	opts AuthOptions,
) *AuthService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	return &AuthService{
		users:      users,
		admins:     admins,
		otps:       otps,
		tokens:     tokens,
		hasher:     hasher,
		otpChannel: otpChannel,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetMetrics enables OTP issuance metrics
func (s *AuthService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// SendOTP issues a fresh code for phone, replacing any earlier one
func (s *AuthService) SendOTP(ctx context.Context, phone string) (*OTPResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.NewValidationError("phone is required")
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate OTP", err)
	}

	now := s.now()
	record := &entities.OTPRecord{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(s.opts.OTPTTL),
		CreatedAt: now,
	}
	if err := s.otps.Replace(ctx, record); err != nil {
		return nil, err
	}

	delivered := false
	if s.otpChannel != nil {
		if err := s.otpChannel.SendOTP(ctx, phone, code); err != nil {
			if !s.opts.DevMode {
				return nil, apperrors.NewExternalError("failed to deliver OTP", err)
			}
			log.Warn().Err(err).Str("phone", phone).Msg("OTP delivery failed, continuing in dev mode")
		} else {
			delivered = true
		}
	}
	observability.RecordOTPIssued(ctx, s.metrics, delivered)

	result := &OTPResult{Message: "OTP sent successfully", Phone: phone}
	if s.opts.DevMode {
		result.OTP = code
	}
	return result, nil
}

// VerifyOTP consumes a code and logs the patient in, creating the account on
// first login
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*AuthResult, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, apperrors.NewValidationError("phone and otp are required")
	}

	record, err := s.otps.Find(ctx, phone, code)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError("invalid OTP")
		}
		return nil, err
	}
	if record.IsExpired(s.now()) {
		return nil, apperrors.NewValidationError("OTP expired")
	}

	if err := s.otps.DeleteForPhone(ctx, phone); err != nil {
		return nil, err
	}

	user, err := s.findOrCreatePatient(ctx, phone)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(entities.TokenClaims{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) findOrCreatePatient(ctx context.Context, phone string) (*entities.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	user = &entities.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Role:      entities.RolePatient,
		CreatedAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent verify for the same phone created the account first.
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return s.users.GetByPhone(ctx, phone)
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("patient account created")
	return user, nil
}

// AdminLogin authenticates clinic staff by username and password
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.tokens.Issue(entities.TokenClaims{
		UserID:   admin.ID,
		Username: admin.Username,
		Role:     entities.RoleAdmin,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	return &AuthResult{
		Token: token,
		User: AdminProfile{
			ID:       admin.ID,
			Name:     admin.Name,
			Role:     entities.RoleAdmin,
			Username: admin.Username,
		},
	}, nil
}

// ChangeAdminPassword replaces an admin's password after checking the current one
func (s *AuthService) ChangeAdminPassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, admin.PasswordHash) {
		return apperrors.NewUnauthorizedError("current password is incorrect")
	}
	if len(newPassword) < s.opts.MinPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("new password must be at least %d characters", s.opts.MinPasswordLength))
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.NewInternalError("failed to hash password", err)
	}
	return s.admins.UpdatePassword(ctx, admin.ID, digest)
}

// CurrentUser returns the account behind the token claims
func (s *AuthService) CurrentUser(ctx context.Context, claims *entities.TokenClaims) (interface{}, error) {
	if claims.IsAdmin() {
		admin, err := s.admins.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		return AdminProfile{ID: admin.ID, Name: admin.Name, Role: entities.RoleAdmin, Username: admin.Username}, nil
	}
	return s.users.GetByID(ctx, claims.UserID)
}

// UpdateProfile sets the non-empty fields of update on the user's account
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		name := strings.TrimSpace(*update.Name)
		user.Name = &name
		changed = true
	}
	if update.FCMToken != nil && *update.FCMToken != "" {
		token := *update.FCMToken
		user.FCMToken = &token
		changed = true
	}
	if !changed {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateOTP returns a uniformly random zero-padded numeric code
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
