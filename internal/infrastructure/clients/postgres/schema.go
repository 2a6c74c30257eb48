package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		phone       TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL DEFAULT '',
		role        TEXT NOT NULL DEFAULT 'patient',
		fcm_token   TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id             TEXT PRIMARY KEY,
		username       TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		name           TEXT NOT NULL DEFAULT '',
		role           TEXT NOT NULL DEFAULT 'admin',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS otp_codes (
		phone       TEXT PRIMARY KEY,
		code        TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		specialization  TEXT NOT NULL,
		phone           TEXT,
		available_days  TEXT[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		name_en           TEXT NOT NULL DEFAULT '',
		description       TEXT,
		duration_minutes  INTEGER NOT NULL DEFAULT 30,
		price             NUMERIC(12, 2),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id                 TEXT PRIMARY KEY,
		patient_id         TEXT,
		patient_name       TEXT NOT NULL,
		patient_phone      TEXT NOT NULL,
		doctor_id          TEXT NOT NULL,
		doctor_name        TEXT NOT NULL DEFAULT '',
		service_id         TEXT NOT NULL,
		service_name       TEXT NOT NULL DEFAULT '',
		appointment_date   TIMESTAMPTZ NOT NULL,
		status             TEXT NOT NULL DEFAULT 'pending',
		notes              TEXT,
		reminder_24h_sent  BOOLEAN NOT NULL DEFAULT FALSE,
		reminder_3h_sent   BOOLEAN NOT NULL DEFAULT FALSE,
		post_visit_sent    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by         TEXT NOT NULL DEFAULT 'admin'
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		message          TEXT NOT NULL,
		type             TEXT NOT NULL,
		appointment_id   TEXT,
		read             BOOLEAN NOT NULL DEFAULT FALSE,
		delivery_status  TEXT NOT NULL DEFAULT 'pending',
		delivery_error   TEXT,
		sent_at          TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		message          TEXT NOT NULL,
		target_audience  TEXT NOT NULL DEFAULT 'all',
		target_filter    JSONB,
		sent_count       INTEGER NOT NULL DEFAULT 0,
		opened_count     INTEGER NOT NULL DEFAULT 0,
		booked_count     INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'draft',
		scheduled_for    TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id              TEXT PRIMARY KEY,
		appointment_id  TEXT NOT NULL,
		patient_id      TEXT NOT NULL,
		rating          INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment         TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient_phone ON appointments (patient_phone)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient_id ON appointments (patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments (status)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_appointment ON reviews (appointment_id)`,
}

// EnsureSchema creates any missing tables and indexes. Existing tables are
// left as they are.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	log.Info().Int("tables", len(schemaStatements)).Msg("database schema ready")
	return nil
}
