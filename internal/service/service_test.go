package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/jobtracker/internal/repository"
	"github.com/templui/jobtracker/internal/storage"
	"github.com/templui/jobtracker/internal/testutil"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

type fixture struct {
	db           *sqlx.DB
	store        *storage.LocalStorage
	auth         *AuthService
	applications *ApplicationService
	notes        *NoteService
	attachments  *AttachmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewDB(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	users := repository.NewUserRepository(database)
	apps := repository.NewApplicationRepository(database)
	notes := repository.NewNoteRepository(database)
	attachments := repository.NewAttachmentRepository(database)

	return &fixture{
		db:           database,
		store:        store,
		auth:         NewAuthService(users, testSecret, time.Hour),
		applications: NewApplicationService(apps),
		notes:        NewNoteService(notes, apps),
		attachments:  NewAttachmentService(attachments, apps, store, 1<<20),
	}
}

func (f *fixture) user(t *testing.T, email string) string {
	t.Helper()
	return testutil.InsertUser(t, f.db, email)
}

func (f *fixture) application(t *testing.T, userID string) string {
	t.Helper()
	app, err := f.applications.Create(context.Background(), userID, CreateApplicationInput{
		JobTitle: "Platform Engineer",
		Company:  "Initech",
	})
	require.NoError(t, err)
	return app.ID
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}
