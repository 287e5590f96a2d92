package database

import (
	"database/sql"
	"fmt"
	"os"
)

// DefaultSchemaPath is where the repo keeps the sqlite schema.
const DefaultSchemaPath = "docs/schema.sql"

// Migrate applies the checked-in schema. Statements are idempotent
// (CREATE TABLE IF NOT EXISTS), so running it on every boot is safe.
func Migrate(db *sql.DB) error {
	return MigrateFrom(db, DefaultSchemaPath)
}

// MigrateFrom applies a schema file from an explicit path; tests point it at
// fixtures.
func MigrateFrom(db *sql.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
