package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationURL переводит postgres:// DSN в схему драйвера pgx5 для migrate
func MigrationURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "pgx5://") {
		return databaseURL
	}
	if strings.HasPrefix(databaseURL, "postgresql://") {
		return strings.Replace(databaseURL, "postgresql://", "pgx5://", 1)
	}
	return strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
}

// RunMigrations применяет миграции из sourceURL (например, file://migrations)
func RunMigrations(databaseURL, sourceURL string, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	m, err := migrate.New(sourceURL, MigrationURL(databaseURL))
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}
