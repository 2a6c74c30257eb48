package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// clampLimit applies the store-wide list cap; zero or negative means the cap
func clampLimit(limit int) int {
	if limit <= 0 || limit > repositories.MaxListLimit {
		return repositories.MaxListLimit
	}
	return limit
}

func expectAffected(result sql.Result, notFoundMessage string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFoundMessage)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
