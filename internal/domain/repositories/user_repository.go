package repositories

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// UserRepository defines the interface for patient account operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByPhone retrieves a user by phone
	GetByPhone(ctx context.Context, phone string) (*entities.User, error)

	// Update updates the profile fields of a user
	Update(ctx context.Context, user *entities.User) error

	// ListByRole retrieves up to limit users with the given role, oldest first
	ListByRole(ctx context.Context, role entities.UserRole, limit int) ([]*entities.User, error)

	// CountByRole counts users with the given role
	CountByRole(ctx context.Context, role entities.UserRole) (int, error)
}

// AdminUserRepository defines the interface for staff account operations
type AdminUserRepository interface {
	// Create creates a new admin user
	Create(ctx context.Context, admin *entities.AdminUser) error

	// GetByID retrieves an admin by ID
	GetByID(ctx context.Context, id string) (*entities.AdminUser, error)

	// GetByUsername retrieves an admin by username
	GetByUsername(ctx context.Context, username string) (*entities.AdminUser, error)

	// UpdatePassword replaces the stored password hash
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// OTPRepository defines the interface for the one-time code ledger
type OTPRepository interface {
	// Replace deletes every code issued for the record's phone and stores the new one
	Replace(ctx context.Context, record *entities.OTPRecord) error

	// Find retrieves the code issued for phone, expired or not
	Find(ctx context.Context, phone, code string) (*entities.OTPRecord, error)

	// DeleteForPhone removes every code issued for phone
	DeleteForPhone(ctx context.Context, phone string) error
}
