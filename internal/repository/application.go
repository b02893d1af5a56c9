package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/db"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/patch"
)

// Missing and not-owned are deliberately the same error.
var ErrApplicationNotFound = apperr.NotFound("application not found")

var applicationUpdatable = map[string]bool{
	"job_title":     true,
	"company":       true,
	"contact_name":  true,
	"contact_email": true,
	"contact_phone": true,
	"job_url":       true,
	"salary":        true,
	"work_model":    true,
	"applied_on":    true,
	"deadline_on":   true,
	"status":        true,
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	ByID(ctx context.Context, userID, id string) (*model.Application, error)
	Applications(ctx context.Context, userID string) ([]*model.Application, error)
	Update(ctx context.Context, userID, id string, changes []patch.Change, updatedAt time.Time) (*model.Application, error)
	Delete(ctx context.Context, userID, id string) error
}

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts app for app.UserID. The row is sourced from the users table so
// a vanished account inserts nothing.
func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	query := `INSERT INTO applications (id, user_id, job_title, company, contact_name, contact_email, contact_phone,
	              job_url, salary, work_model, applied_on, deadline_on, status, created_at)
	          SELECT $1, u.id, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	          FROM users u WHERE u.id = $14
	          RETURNING *`

	err := r.db.GetContext(ctx, app, query,
		app.ID,
		app.JobTitle,
		app.Company,
		app.ContactName,
		app.ContactEmail,
		app.ContactPhone,
		app.JobURL,
		app.Salary,
		app.WorkModel,
		app.AppliedOn,
		app.DeadlineOn,
		app.Status,
		app.CreatedAt,
		app.UserID,
	)
	if errors.Is(err, sql.ErrNoRows) || db.IsForeignKeyViolation(err) {
		return ErrUserNotFound
	}

	return err
}

func (r *applicationRepository) ByID(ctx context.Context, userID, id string) (*model.Application, error) {
	app := &model.Application{}
	query := `SELECT * FROM applications WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, app, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}

	return app, nil
}

func (r *applicationRepository) Applications(ctx context.Context, userID string) ([]*model.Application, error) {
	apps := []*model.Application{}
	query := `SELECT * FROM applications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &apps, query, userID)
	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Update applies changes and stamps updated_at in one owner-scoped statement.
func (r *applicationRepository) Update(ctx context.Context, userID, id string, changes []patch.Change, updatedAt time.Time) (*model.Application, error) {
	set, args, err := setClause("applications", applicationUpdatable, changes, updatedAt)
	if err != nil {
		return nil, err
	}

	n := len(args)
	query := fmt.Sprintf(`UPDATE applications SET %s WHERE id = $%d AND user_id = $%d RETURNING *`, set, n+1, n+2)
	args = append(args, id, userID)

	app := &model.Application{}
	err = r.db.GetContext(ctx, app, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Delete removes the application; notes and attachment rows cascade.
func (r *applicationRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM applications WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrApplicationNotFound
	}

	return nil
}
