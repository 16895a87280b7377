package db

import (
	"database/sql"
	"fmt"

	"github.com/Spok95/tutorcenter-backend/internal/db/migrations"
	"github.com/pressly/goose/v3"
)

// Migrate накатывает embed-миграции goose. Идемпотентно.
func Migrate(database *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	return goose.Up(database, ".")
}
