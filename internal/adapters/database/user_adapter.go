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

const usersTable = "users"

var userColumns = []interface{}{"id", "phone", "name", "role", "fcm_token", "created_at"}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user. A second account for the same phone is a conflict.
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Insert(usersTable).Rows(goqu.Record{
		"id":         user.ID,
		"phone":      user.Phone,
		"name":       user.Name,
		"role":       user.Role,
		"fcm_token":  user.FCMToken,
		"created_at": user.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("user with phone %s already exists", user.Phone))
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %s not found", id))
}

// GetByPhone retrieves a user by phone
func (a *UserAdapter) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"phone": phone}, fmt.Sprintf("user with phone %s not found", phone))
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From(usersTable).Where(where).Limit(1).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// Update updates the profile fields of a user
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Update(usersTable).
		Set(goqu.Record{
			"name":      user.Name,
			"fcm_token": user.FCMToken,
		}).
		Where(goqu.Ex{"id": user.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}
	return expectAffected(result, fmt.Sprintf("user with id %s not found", user.ID))
}

// ListByRole retrieves up to limit users with the given role, oldest first
func (a *UserAdapter) ListByRole(ctx context.Context, role entities.UserRole, limit int) ([]*entities.User, error) {
	ds := a.db.Select(userColumns...).
		From(usersTable).
		Where(goqu.Ex{"role": role}).
		Order(goqu.I("created_at").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating users", err)
	}
	return users, nil
}

// CountByRole counts users with the given role
func (a *UserAdapter) CountByRole(ctx context.Context, role entities.UserRole) (int, error) {
	query, args, err := a.db.From(usersTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"role": role}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count users", err)
	}
	return count, nil
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var name, fcmToken sql.NullString
	if err := row.Scan(&user.ID, &user.Phone, &name, &user.Role, &fcmToken, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Name = stringPtr(name)
	user.FCMToken = stringPtr(fcmToken)
	return user, nil
}
