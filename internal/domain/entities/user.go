package entities

import (
	"time"
)

// UserRole distinguishes clinic staff from patients
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RolePatient UserRole = "patient"
)

// User is a patient account created on first OTP verification for a phone
type User struct {
	ID        string    `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Role      UserRole  `json:"role" db:"role"`
	FCMToken  *string   `json:"fcm_token,omitempty" db:"fcm_token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasPushToken reports whether the user registered a device for push delivery
func (u *User) HasPushToken() bool {
	return u.FCMToken != nil && *u.FCMToken != ""
}

// AdminUser is a staff account authenticated by username and password
type AdminUser struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ProfileUpdate carries the fields a user may change on their own profile
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	FCMToken *string `json:"fcm_token,omitempty"`
}

// OTPRecord is a short-lived login code for a phone
type OTPRecord struct {
	Phone     string    `json:"phone" db:"phone"`
	Code      string    `json:"-" db:"code"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the code can no longer be used at now
func (o *OTPRecord) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// TokenClaims are the identity facts carried in an access token
type TokenClaims struct {
	UserID   string   `json:"user_id"`
	Phone    string   `json:"phone,omitempty"`
	Username string   `json:"username,omitempty"`
	Role     UserRole `json:"role"`
}

// IsAdmin reports whether the claims belong to clinic staff
func (c *TokenClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
