// Package testutil provides a migrated SQLite database for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/jobtracker/internal/db"
)

// NewDB opens a fresh SQLite file in a temp dir and applies all migrations.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	conn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	database, err := db.Init("sqlite", conn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(context.Background(), database.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return database
}

// InsertUser creates a user row directly and returns its id.
func InsertUser(t testing.TB, database *sqlx.DB, email string) string {
	t.Helper()

	id := uuid.Must(uuid.NewV7()).String()
	_, err := database.Exec(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		id, email, "not-a-real-hash", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	return id
}
