package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const adminUsersTable = "admin_users"

// AdminUserAdapter implements the AdminUserRepository interface
type AdminUserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAdminUserAdapter creates a new admin user adapter
func NewAdminUserAdapter(client *postgres.Client) repositories.AdminUserRepository {
	return &AdminUserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new admin user
func (a *AdminUserAdapter) Create(ctx context.Context, admin *entities.AdminUser) error {
	query, args, err := a.db.Insert(adminUsersTable).Rows(goqu.Record{
		"id":            admin.ID,
		"username":      admin.Username,
		"password_hash": admin.PasswordHash,
		"name":          admin.Name,
		"role":          admin.Role,
		"created_at":    admin.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("admin %s already exists", admin.Username))
		}
		return apperrors.NewInternalError("failed to create admin user", err)
	}
	return nil
}

// GetByID retrieves an admin by ID
func (a *AdminUserAdapter) GetByID(ctx context.Context, id string) (*entities.AdminUser, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("admin with id %s not found", id))
}

// GetByUsername retrieves an admin by username
func (a *AdminUserAdapter) GetByUsername(ctx context.Context, username string) (*entities.AdminUser, error) {
	return a.getOne(ctx, goqu.Ex{"username": username}, fmt.Sprintf("admin %s not found", username))
}

func (a *AdminUserAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.AdminUser, error) {
	query, args, err := a.db.Select("id", "username", "password_hash", "name", "role", "created_at").
		From(adminUsersTable).
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	admin := &entities.AdminUser{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Name,
		&admin.Role,
		&admin.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get admin user", err)
	}
	return admin, nil
}

// UpdatePassword replaces the stored password hash
func (a *AdminUserAdapter) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query, args, err := a.db.Update(adminUsersTable).
		Set(goqu.Record{"password_hash": passwordHash}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update password", err)
	}
	return expectAffected(result, fmt.Sprintf("admin with id %s not found", id))
}
