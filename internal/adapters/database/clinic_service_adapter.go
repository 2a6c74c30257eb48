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

const servicesTable = "services"

var serviceColumns = []interface{}{"id", "name", "name_en", "description", "duration_minutes", "price", "created_at"}

// ClinicServiceAdapter implements the ClinicServiceRepository interface
type ClinicServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClinicServiceAdapter creates a new clinic service adapter
func NewClinicServiceAdapter(client *postgres.Client) repositories.ClinicServiceRepository {
	return &ClinicServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new clinic service
func (a *ClinicServiceAdapter) Create(ctx context.Context, service *entities.ClinicService) error {
	query, args, err := a.db.Insert(servicesTable).Rows(goqu.Record{
		"id":               service.ID,
		"name":             service.Name,
		"name_en":          service.NameEn,
		"description":      service.Description,
		"duration_minutes": service.DurationMinutes,
		"price":            service.Price,
		"created_at":       service.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create service", err)
	}
	return nil
}

// GetByID retrieves a clinic service by ID
func (a *ClinicServiceAdapter) GetByID(ctx context.Context, id string) (*entities.ClinicService, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From(servicesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service, err := scanClinicService(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return service, nil
}

// List retrieves up to limit services in insertion order
func (a *ClinicServiceAdapter) List(ctx context.Context, limit int) ([]*entities.ClinicService, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From(servicesTable).
		Order(goqu.I("created_at").Asc()).
		Limit(uint(clampLimit(limit))).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	services := make([]*entities.ClinicService, 0)
	for rows.Next() {
		service, err := scanClinicService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating services", err)
	}
	return services, nil
}

// Delete removes a clinic service
func (a *ClinicServiceAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(servicesTable).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete service", err)
	}
	return expectAffected(result, fmt.Sprintf("service with id %s not found", id))
}

func scanClinicService(row rowScanner) (*entities.ClinicService, error) {
	service := &entities.ClinicService{}
	var description sql.NullString
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.NameEn,
		&description,
		&service.DurationMinutes,
		&service.Price,
		&service.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	service.Description = stringPtr(description)
	return service, nil
}
