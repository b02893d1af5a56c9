package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/patch"
)

func TestNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")
	appID := f.application(t, userID)

	note, err := f.notes.Create(ctx, userID, appID, CreateNoteInput{Text: "  Recruiter called  "})
	require.NoError(t, err)
	assert.Equal(t, "Recruiter called", note.Text)
	assert.Equal(t, model.NewDate(time.Now().UTC()).String(), note.Date.String())

	dated, err := f.notes.Create(ctx, userID, appID, CreateNoteInput{Date: "2024-12-24", Text: "Sent follow-up"})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-24", dated.Date.String())

	list, err := f.notes.Notes(ctx, userID, appID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, note.ID, list[0].ID)

	updated, err := f.notes.Update(ctx, userID, dated.ID, decode[NotePatch](t, `{"text": "Sent second follow-up", "date": ""}`))
	require.NoError(t, err)
	assert.Equal(t, "Sent second follow-up", updated.Text)
	assert.Equal(t, "2024-12-24", updated.Date.String())
	assert.NotNil(t, updated.UpdatedAt)

	_, err = f.notes.Update(ctx, userID, dated.ID, decode[NotePatch](t, `{}`))
	assert.ErrorIs(t, err, patch.ErrEmpty)

	_, err = f.notes.Update(ctx, userID, dated.ID, decode[NotePatch](t, `{"text": null}`))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, f.notes.Delete(ctx, userID, note.ID))
	list, err = f.notes.Notes(ctx, userID, appID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNoteValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")
	appID := f.application(t, userID)

	_, err := f.notes.Create(ctx, userID, appID, CreateNoteInput{Text: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.notes.Create(ctx, userID, appID, CreateNoteInput{Text: strings.Repeat("x", 10001)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.notes.Create(ctx, userID, appID, CreateNoteInput{Date: "tomorrow", Text: "x"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestNotesAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	appID := f.application(t, alice)

	note, err := f.notes.Create(ctx, alice, appID, CreateNoteInput{Text: "private"})
	require.NoError(t, err)

	_, err = f.notes.Create(ctx, bob, appID, CreateNoteInput{Text: "intrusion"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.notes.Notes(ctx, bob, appID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.notes.Update(ctx, bob, note.ID, decode[NotePatch](t, `{"text": "changed"}`))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.notes.Delete(ctx, bob, note.ID)))

	list, err := f.notes.Notes(ctx, alice, appID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "private", list[0].Text)
}
