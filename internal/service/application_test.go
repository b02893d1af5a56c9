package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/patch"
	"github.com/templui/jobtracker/internal/repository"
)

func TestApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")

	app, err := f.applications.Create(ctx, userID, CreateApplicationInput{
		JobTitle: " Backend Engineer ",
		Company:  "Acme",
		JobURL:   "https://jobs.example.com/123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, app.Status)
	assert.Equal(t, "Backend Engineer", app.JobTitle)
	assert.Nil(t, app.UpdatedAt)
	assert.Nil(t, app.Salary)

	updated, err := f.applications.Update(ctx, userID, app.ID, decode[ApplicationPatch](t,
		`{"status": "applied", "applied_on": "2025-04-02", "salary": "  ", "company": ""}`))
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplied, updated.Status)
	require.NotNil(t, updated.AppliedOn)
	assert.Equal(t, "2025-04-02", updated.AppliedOn.String())
	assert.Equal(t, "Acme", updated.Company)
	assert.Nil(t, updated.Salary)
	assert.NotNil(t, updated.UpdatedAt)

	cleared, err := f.applications.Update(ctx, userID, app.ID, decode[ApplicationPatch](t, `{"job_url": null}`))
	require.NoError(t, err)
	assert.Nil(t, cleared.JobURL)

	require.NoError(t, f.applications.Delete(ctx, userID, app.ID))
	_, err = f.applications.Application(ctx, userID, app.ID)
	assert.ErrorIs(t, err, repository.ErrApplicationNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestApplicationEmptyPatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")
	appID := f.application(t, userID)

	for _, body := range []string{`{}`, `{"job_title": ""}`, `{"company": "   ", "salary": ""}`} {
		_, err := f.applications.Update(ctx, userID, appID, decode[ApplicationPatch](t, body))
		assert.ErrorIs(t, err, patch.ErrEmpty, body)
		assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	}

	app, err := f.applications.Application(ctx, userID, appID)
	require.NoError(t, err)
	assert.Nil(t, app.UpdatedAt)
	assert.Equal(t, "Platform Engineer", app.JobTitle)
}

func TestApplicationPatchValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")
	appID := f.application(t, userID)

	_, err := f.applications.Update(ctx, userID, appID, decode[ApplicationPatch](t,
		`{"job_title": null, "status": "ghosted", "deadline_on": "31/12/2025", "work_model": "moon"}`))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)

	fields := map[string]bool{}
	for _, issue := range e.Issues {
		fields[issue.Field] = true
	}
	assert.Equal(t, map[string]bool{"job_title": true, "status": true, "deadline_on": true, "work_model": true}, fields)

	app, err := f.applications.Application(ctx, userID, appID)
	require.NoError(t, err)
	assert.Nil(t, app.UpdatedAt)
	assert.Equal(t, model.StatusOpen, app.Status)
}

func TestApplicationCreateValidation(t *testing.T) {
	f := newFixture(t)
	userID := f.user(t, "jane@example.com")

	_, err := f.applications.Create(context.Background(), userID, CreateApplicationInput{
		JobTitle:     "   ",
		Company:      "Acme",
		ContactEmail: "Jane <jane@example.com>",
		Status:       "maybe",
		AppliedOn:    "2025-13-01",
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Len(t, e.Issues, 4)
}

func TestApplicationsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	appID := f.application(t, alice)

	_, err := f.applications.Application(ctx, bob, appID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.applications.Update(ctx, bob, appID, decode[ApplicationPatch](t, `{"status": "offer"}`))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.applications.Delete(ctx, bob, appID)))

	list, err := f.applications.Applications(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	app, err := f.applications.Application(ctx, alice, appID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, app.Status)
	assert.Nil(t, app.UpdatedAt)
}
