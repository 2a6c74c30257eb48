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

const otpCodesTable = "otp_codes"

// OTPAdapter implements the OTPRepository interface
type OTPAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOTPAdapter creates a new OTP ledger adapter
func NewOTPAdapter(client *postgres.Client) repositories.OTPRepository {
	return &OTPAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Replace deletes every earlier code for the phone and stores record in one transaction
func (a *OTPAdapter) Replace(ctx context.Context, record *entities.OTPRecord) error {
	deleteQuery, deleteArgs, err := a.db.Delete(otpCodesTable).
		Where(goqu.Ex{"phone": record.Phone}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	insertQuery, insertArgs, err := a.db.Insert(otpCodesTable).Rows(goqu.Record{
		"phone":      record.Phone,
		"code":       record.Code,
		"expires_at": record.ExpiresAt,
		"created_at": record.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return apperrors.NewInternalError("failed to delete previous codes", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return apperrors.NewInternalError("failed to store code", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit code", err)
	}
	return nil
}

// Find retrieves the code issued for phone, expired or not
func (a *OTPAdapter) Find(ctx context.Context, phone, code string) (*entities.OTPRecord, error) {
	query, args, err := a.db.Select("phone", "code", "expires_at", "created_at").
		From(otpCodesTable).
		Where(goqu.Ex{"phone": phone, "code": code}).
		Order(goqu.I("created_at").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record := &entities.OTPRecord{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&record.Phone,
		&record.Code,
		&record.ExpiresAt,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no code issued for %s", phone))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get code", err)
	}
	return record, nil
}

// DeleteForPhone removes every code issued for phone
func (a *OTPAdapter) DeleteForPhone(ctx context.Context, phone string) error {
	query, args, err := a.db.Delete(otpCodesTable).
		Where(goqu.Ex{"phone": phone}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete codes", err)
	}
	return nil
}
