// internal/database/migrate.go
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func prepareGoose(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logrus.StandardLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return sqlDB, nil
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}

	if err := goose.Up(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func RollbackMigration(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}

	if err := goose.Down(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

func MigrationStatus(db *gorm.DB) error {
	sqlDB, err := prepareGoose(db)
	if err != nil {
		return err
	}
	return goose.Status(sqlDB, migrationsDir)
}
