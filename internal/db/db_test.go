package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsUpAndDown(t *testing.T) {
	ctx := context.Background()
	conn := filepath.Join(t.TempDir(), "data", "test.db") + "?_pragma=foreign_keys(1)"

	database, err := Init("sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	require.NoError(t, RunMigrations(ctx, database.DB, "sqlite"))

	version, err := Version(ctx, database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var tables int
	err = database.GetContext(ctx, &tables,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'applications', 'notes', 'attachments')`)
	require.NoError(t, err)
	assert.Equal(t, 4, tables)

	require.NoError(t, Ping(ctx, database))
	require.NoError(t, MigrateDown(ctx, database.DB, "sqlite"))

	err = database.GetContext(ctx, &tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'`)
	require.NoError(t, err)
	assert.Zero(t, tables)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "u.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	_, err = database.ExecContext(ctx, `CREATE TABLE t (email TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `INSERT INTO t (email) VALUES ('a@example.com')`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `INSERT INTO t (email) VALUES ('a@example.com')`)
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "fk.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	_, err = database.ExecContext(ctx, `CREATE TABLE parent (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `CREATE TABLE child (id TEXT PRIMARY KEY, parent_id TEXT NOT NULL REFERENCES parent(id))`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `INSERT INTO child (id, parent_id) VALUES ('c1', 'gone')`)
	require.Error(t, err)

	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(errors.New("connection refused")))
	assert.False(t, IsForeignKeyViolation(nil))
}
