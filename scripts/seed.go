package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicbooking/backend/internal/adapters/database"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/security"
	"github.com/zatekoja/clinicbooking/backend/pkg/config"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// seed creates the first admin account and the standard service catalog.
// Running it twice leaves existing rows untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Server.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				notifications,
				reviews,
				campaigns,
				appointments,
				otp_codes,
				services,
				doctors,
				admin_users,
				users
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	if err := seedAdmin(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}
	if err := seedServices(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("failed to seed services")
	}

	log.Info().Msg("seed complete")
}

func seedAdmin(ctx context.Context, pgClient *postgres.Client) error {
	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "admin123")
	if password == "admin123" {
		log.Warn().Msg("ADMIN_PASSWORD not set, using the default password; change it after first login")
	}

	hash, err := security.NewBcryptHasher(0).Hash(password)
	if err != nil {
		return err
	}

	admin := &entities.AdminUser{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Name:         getEnv("ADMIN_NAME", "Administrator"),
		Role:         entities.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	err = database.NewAdminUserAdapter(pgClient).Create(ctx, admin)
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeConflict):
		log.Info().Str("username", username).Msg("admin user already exists")
		return nil
	case err != nil:
		return err
	}
	log.Info().Str("username", username).Msg("admin user created")
	return nil
}

func seedServices(ctx context.Context, pgClient *postgres.Client) error {
	repo := database.NewClinicServiceAdapter(pgClient)

	existing, err := repo.List(ctx, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Msg("services already seeded")
		return nil
	}

	now := time.Now().UTC()
	for _, st := range entities.StandardServiceTypes {
		service := &entities.ClinicService{
			ID:              uuid.New().String(),
			Name:            st.Name,
			NameEn:          st.NameEn,
			DurationMinutes: entities.DefaultServiceDuration,
			CreatedAt:       now,
		}
		if err := repo.Create(ctx, service); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(entities.StandardServiceTypes)).Msg("services created")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
