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

var ErrNoteNotFound = apperr.NotFound("note not found")

var noteUpdatable = map[string]bool{
	"date": true,
	"text": true,
}

// Notes are owned through their application; every statement joins or filters on applications.user_id.
type NoteRepository interface {
	Create(ctx context.Context, userID string, note *model.Note) error
	ByID(ctx context.Context, userID, id string) (*model.Note, error)
	Notes(ctx context.Context, userID, applicationID string) ([]*model.Note, error)
	Update(ctx context.Context, userID, id string, changes []patch.Change, updatedAt time.Time) (*model.Note, error)
	Delete(ctx context.Context, userID, id string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts note only if its application belongs to userID. The parent check
// and the insert are one statement, so ownership cannot change in between.
func (r *noteRepository) Create(ctx context.Context, userID string, note *model.Note) error {
	query := `INSERT INTO notes (id, application_id, date, text, created_at)
	          SELECT $1, a.id, $2, $3, $4
	          FROM applications a WHERE a.id = $5 AND a.user_id = $6
	          RETURNING *`

	err := r.db.GetContext(ctx, note, query,
		note.ID,
		note.Date,
		note.Text,
		note.CreatedAt,
		note.ApplicationID,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) || db.IsForeignKeyViolation(err) {
		return ErrApplicationNotFound
	}

	return err
}

func (r *noteRepository) ByID(ctx context.Context, userID, id string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT n.* FROM notes n
	          JOIN applications a ON a.id = n.application_id
	          WHERE n.id = $1 AND a.user_id = $2`

	err := r.db.GetContext(ctx, note, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

// Notes lists an application's notes, newest date first. An empty result does not
// prove the caller owns the application; callers check the parent first.
func (r *noteRepository) Notes(ctx context.Context, userID, applicationID string) ([]*model.Note, error) {
	notes := []*model.Note{}
	query := `SELECT n.* FROM notes n
	          JOIN applications a ON a.id = n.application_id
	          WHERE n.application_id = $1 AND a.user_id = $2
	          ORDER BY n.date DESC, n.id DESC`

	err := r.db.SelectContext(ctx, &notes, query, applicationID, userID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, userID, id string, changes []patch.Change, updatedAt time.Time) (*model.Note, error) {
	set, args, err := setClause("notes", noteUpdatable, changes, updatedAt)
	if err != nil {
		return nil, err
	}

	n := len(args)
	query := fmt.Sprintf(`UPDATE notes SET %s
	          WHERE id = $%d AND application_id IN (SELECT id FROM applications WHERE user_id = $%d)
	          RETURNING *`, set, n+1, n+2)
	args = append(args, id, userID)

	note := &model.Note{}
	err = r.db.GetContext(ctx, note, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM notes
	          WHERE id = $1 AND application_id IN (SELECT id FROM applications WHERE user_id = $2)`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}
