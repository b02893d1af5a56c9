package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/jobtracker/internal/apperr"
	"github.com/templui/jobtracker/internal/db"
	"github.com/templui/jobtracker/internal/model"
)

var ErrAttachmentNotFound = apperr.NotFound("attachment not found")

// AttachmentRepository stores attachment metadata. Rows are owned through their
// application; storage keys are shared across rows with identical content.
type AttachmentRepository interface {
	Create(ctx context.Context, userID string, attachment *model.Attachment) error
	ByID(ctx context.Context, userID, id string) (*model.Attachment, error)
	Attachments(ctx context.Context, userID, applicationID string, includeDeleted bool) ([]*model.Attachment, error)
	StorageKeyByChecksum(ctx context.Context, checksum string) (string, error)
	StorageKeyReferenced(ctx context.Context, key string) (bool, error)
	SoftDelete(ctx context.Context, userID, id string, deletedAt time.Time) error
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// Create inserts the row only if the application belongs to userID.
func (r *attachmentRepository) Create(ctx context.Context, userID string, attachment *model.Attachment) error {
	query := `INSERT INTO attachments (id, application_id, filename_original, mime_type, size_bytes, storage_key, checksum_sha256, uploaded_at)
	          SELECT $1, a.id, $2, $3, $4, $5, $6, $7
	          FROM applications a WHERE a.id = $8 AND a.user_id = $9
	          RETURNING *`

	err := r.db.GetContext(ctx, attachment, query,
		attachment.ID,
		attachment.FilenameOriginal,
		attachment.MimeType,
		attachment.SizeBytes,
		attachment.StorageKey,
		attachment.ChecksumSHA256,
		attachment.UploadedAt,
		attachment.ApplicationID,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) || db.IsForeignKeyViolation(err) {
		return ErrApplicationNotFound
	}

	return err
}

// ByID returns a non-deleted attachment owned by userID.
func (r *attachmentRepository) ByID(ctx context.Context, userID, id string) (*model.Attachment, error) {
	attachment := &model.Attachment{}
	query := `SELECT f.* FROM attachments f
	          JOIN applications a ON a.id = f.application_id
	          WHERE f.id = $1 AND a.user_id = $2 AND f.deleted_at IS NULL`

	err := r.db.GetContext(ctx, attachment, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return attachment, nil
}

func (r *attachmentRepository) Attachments(ctx context.Context, userID, applicationID string, includeDeleted bool) ([]*model.Attachment, error) {
	attachments := []*model.Attachment{}
	query := `SELECT f.* FROM attachments f
	          JOIN applications a ON a.id = f.application_id
	          WHERE f.application_id = $1 AND a.user_id = $2`
	if !includeDeleted {
		query += ` AND f.deleted_at IS NULL`
	}
	query += ` ORDER BY f.uploaded_at DESC, f.id DESC`

	err := r.db.SelectContext(ctx, &attachments, query, applicationID, userID)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

// StorageKeyByChecksum finds the key of any live attachment with this content,
// across all users. It returns "" when there is none.
func (r *attachmentRepository) StorageKeyByChecksum(ctx context.Context, checksum string) (string, error) {
	var key string
	query := `SELECT storage_key FROM attachments WHERE checksum_sha256 = $1 AND deleted_at IS NULL LIMIT 1`

	err := r.db.GetContext(ctx, &key, query, checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return key, nil
}

// StorageKeyReferenced reports whether any live attachment still points at key.
func (r *attachmentRepository) StorageKeyReferenced(ctx context.Context, key string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM attachments WHERE storage_key = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &count, query, key)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// SoftDelete marks one row deleted. A second call finds nothing to mark and
// returns ErrAttachmentNotFound. The stored object is never touched.
func (r *attachmentRepository) SoftDelete(ctx context.Context, userID, id string, deletedAt time.Time) error {
	query := `UPDATE attachments SET deleted_at = $1
	          WHERE id = $2 AND deleted_at IS NULL
	          AND application_id IN (SELECT id FROM applications WHERE user_id = $3)`

	result, err := r.db.ExecContext(ctx, query, deletedAt, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAttachmentNotFound
	}

	return nil
}
