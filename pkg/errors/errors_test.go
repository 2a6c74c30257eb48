package errors

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  NewNotFoundError("doctor not found"),
			want: "NOT_FOUND: doctor not found",
		},
		{
			name: "with wrapped error",
			err:  NewInternalError("failed to list doctors", sql.ErrConnDone),
			want: "INTERNAL: failed to list doctors: sql: connection is already closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("create appointment: %w", NewNotFoundError("service not found"))

	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsType(sql.ErrNoRows, ErrorTypeNotFound))
	assert.ErrorIs(t, NewInternalError("scan", sql.ErrNoRows), sql.ErrNoRows)
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("outer: %w", NewForbiddenError("admin role required")))

	assert.True(t, ok)
	assert.Equal(t, ErrorTypeForbidden, appErr.Type)
	assert.Equal(t, "admin role required", appErr.Message)
}
