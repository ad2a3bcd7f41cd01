package db

import (
	"embed"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations. Safe to run from every
// worker at startup, goose serializes concurrent runs on its version table.
func Migrate(cfg *config.DatabaseConfig) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to open database for migration: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Println("Database migrations applied")
	return nil
}
