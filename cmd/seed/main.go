package main

import (
	"context"
	"errors"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/database"
	"github.com/mohamedm999/TruckFlow/internal/ids"
	"github.com/mohamedm999/TruckFlow/internal/log"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/security"
)

// Seeds the bootstrap admin account. Safe to run repeatedly: an existing
// account with the configured email is left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	if cfg.Seed.AdminPassword == "" {
		logger.Fatal().Msg("seed.adminpassword is required")
	}

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := repository.NewUserRepository(dbPool)

	if _, err := users.FindByEmail(ctx, cfg.Seed.AdminEmail); err == nil {
		logger.Info().Str("email", cfg.Seed.AdminEmail).Msg("admin already exists, nothing to do")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Fatal().Err(err).Msg("admin lookup failed")
	}

	hash, err := security.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash admin password failed")
	}

	admin := models.User{
		ID:           ids.New(),
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		FirstName:    "Fleet",
		LastName:     "Admin",
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("create admin failed")
	}

	logger.Info().Str("email", admin.Email).Msg("admin account created")
}
