package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

func setupMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

var appointmentRowColumns = []string{
	"id", "patient_id", "patient_name", "patient_phone",
	"doctor_id", "doctor_name", "service_id", "service_name",
	"appointment_date", "status", "notes",
	"reminder_24h_sent", "reminder_3h_sent", "post_visit_sent",
	"created_at", "created_by",
}

func TestAppointmentAdapter_GetByID(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewAppointmentAdapter(client)
	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE \("id" = 'appt-1'\)`).
		WillReturnRows(sqlmock.NewRows(appointmentRowColumns).AddRow(
			"appt-1", nil, "Rami", "+963900000001",
			"doc-1", "Dr. Sami", "svc-1", "تنظيف",
			when, "pending", nil,
			false, false, false,
			when, "admin",
		))

	appointment, err := adapter.GetByID(context.Background(), "appt-1")
	require.NoError(t, err)
	assert.Equal(t, "", appointment.PatientID)
	assert.Equal(t, "Dr. Sami", appointment.DoctorName)
	assert.Equal(t, entities.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, entities.CreatedByAdmin, appointment.CreatedBy)
	assert.Nil(t, appointment.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewAppointmentAdapter(client)

	mock.ExpectQuery(`FROM "appointments"`).WillReturnRows(sqlmock.NewRows(appointmentRowColumns))

	_, err := adapter.GetByID(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestAppointmentAdapter_ListAppliesFiltersAndCap(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewAppointmentAdapter(client)

	mock.ExpectQuery(`FROM "appointments" WHERE .*"status" = 'confirmed'.*"patient_phone" = '\+963900000001'.*ORDER BY "created_at" ASC, "id" ASC LIMIT 1000`).
		WillReturnRows(sqlmock.NewRows(appointmentRowColumns))

	appointments, err := adapter.List(context.Background(), repositories.AppointmentFilter{
		Status:       entities.AppointmentStatusConfirmed,
		PatientPhone: "+963900000001",
		Limit:        5000,
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NotNil(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_DeleteMissing(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewAppointmentAdapter(client)

	mock.ExpectExec(`DELETE FROM "appointments" WHERE \("id" = 'missing'\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPAdapter_ReplaceDeletesEarlierCodes(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewOTPAdapter(client)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "otp_codes" WHERE \("phone" = '\+963900000001'\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "otp_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := adapter.Replace(context.Background(), &entities.OTPRecord{
		Phone:     "+963900000001",
		Code:      "123456",
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorAdapter_ListDecodesAvailableDays(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectQuery(`FROM "doctors" ORDER BY "created_at" ASC LIMIT 1000`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialization", "phone", "available_days", "created_at"}).
			AddRow("doc-1", "Dr. Sami", "Orthodontics", nil, "{sunday,tuesday}", time.Now()).
			AddRow("doc-2", "Dr. Lina", "Surgery", "+963911111111", nil, time.Now()))

	doctors, err := adapter.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, []string{"sunday", "tuesday"}, doctors[0].AvailableDays)
	assert.Equal(t, []string{}, doctors[1].AvailableDays)
	require.NotNil(t, doctors[1].Phone)
	assert.Equal(t, "+963911111111", *doctors[1].Phone)
}

func TestNotificationAdapter_ListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	adapter := NewNotificationAdapter(db)
	newer := time.Now()
	older := newer.Add(-time.Hour)

	columns := []string{"id", "user_id", "title", "message", "type", "appointment_id", "read", "delivery_status", "delivery_error", "sent_at", "created_at"}
	mock.ExpectQuery(`SELECT (.+) FROM notifications WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("user-1", 100).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("n-2", "user-1", "تم تأكيد موعدك", "msg", "reminder", "appt-1", false, "sent", nil, newer, newer).
			AddRow("n-1", "user-1", "عرض خاص", "msg", "campaign", nil, true, "skipped", nil, nil, older))

	notifications, err := adapter.ListByUser(context.Background(), "user-1", 100)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "n-2", notifications[0].ID)
	require.NotNil(t, notifications[0].AppointmentID)
	assert.Equal(t, "appt-1", *notifications[0].AppointmentID)
	assert.Nil(t, notifications[1].AppointmentID)
	assert.True(t, notifications[1].Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationAdapter_MarkRead(t *testing.T) {
	db, mock := setupMockDB(t)
	adapter := NewNotificationAdapter(db)

	mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).
		WithArgs("n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, adapter.MarkRead(context.Background(), "n-1", ""))
	err := adapter.MarkRead(context.Background(), "missing", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationAdapter_MarkReadScopedToUser(t *testing.T) {
	db, mock := setupMockDB(t)
	adapter := NewNotificationAdapter(db)

	mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1 AND user_id = \$2`).
		WithArgs("n-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE id = \$1 AND user_id = \$2`).
		WithArgs("n-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, adapter.MarkRead(context.Background(), "n-1", "user-1"))
	err := adapter.MarkRead(context.Background(), "n-1", "user-2")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationAdapter_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	adapter := NewNotificationAdapter(db)

	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Create(context.Background(), &entities.Notification{
		ID:             "n-1",
		UserID:         "user-1",
		Title:          "t",
		Message:        "m",
		Type:           entities.NotificationTypeGeneral,
		DeliveryStatus: entities.DeliveryStatusPending,
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignAdapter_CreateStoresTargetFilter(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewCampaignAdapter(client)

	mock.ExpectExec(`INSERT INTO "campaigns" .*'\{"last_visit_days":90\}'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Create(context.Background(), &entities.Campaign{
		ID:             "c-1",
		Title:          "Spring offer",
		Message:        "20% off whitening",
		TargetAudience: entities.AudienceAllPatients,
		TargetFilter:   map[string]interface{}{"last_visit_days": 90},
		Status:         entities.CampaignStatusDraft,
		CreatedAt:      time.Now(),
		CreatedBy:      "admin-1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewAdapter_RatingSummary(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewReviewAdapter(client)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\("rating"\), 0\), COUNT\(\*\) FROM "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(14, 3))

	sum, count, err := adapter.RatingSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, sum)
	assert.Equal(t, 3, count)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, repositories.MaxListLimit, clampLimit(0))
	assert.Equal(t, repositories.MaxListLimit, clampLimit(-1))
	assert.Equal(t, repositories.MaxListLimit, clampLimit(10000))
	assert.Equal(t, 50, clampLimit(50))
}
