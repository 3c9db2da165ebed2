package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/internal/container"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/valueobject"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/pagination"
)

// seed creates the default administrator through the user aggregate, so
// its UserRegistered event is dispatched like any other registration.
// Nothing is written when the users table already has rows.
func seed(ctx context.Context, c *container.Container) error {
	cfg := c.Config
	existing, err := c.Profiles.ListProfiles(ctx, pagination.NewPage(1, 1))
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		c.Logger.WithField("users", existing.TotalCount).Info("users already present; skipping seed")
		return nil
	}

	email, err := valueobject.NewEmail(cfg.SeedAdminEmail)
	if err != nil {
		return err
	}
	hash, err := c.Hasher.Hash(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin, err := entity.CreateUser(email, cfg.SeedAdminFirstName, cfg.SeedAdminLastName, hash, entity.RoleAdmin)
	if err != nil {
		return err
	}

	repo := c.Store.Open()
	repo.Add(admin)
	_, err = repo.UnitOfWork().SaveAndDispatch(ctx)
	var de *repository.DispatchError
	if errors.As(err, &de) {
		c.Logger.WithError(err).Warn("admin saved but some events were not delivered")
	} else if err != nil {
		return err
	}
	c.Logger.WithFields(logrus.Fields{"user_id": admin.ID().String(), "email": email.String()}).Info("seeded admin user")
	return nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build application")
	}
	defer c.Close()

	if err := seed(ctx, c); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}
