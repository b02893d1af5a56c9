package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/templui/jobtracker/internal/model"
	"github.com/templui/jobtracker/internal/repository"
	"github.com/templui/jobtracker/internal/sniff"
	"github.com/templui/jobtracker/internal/storage"
	"github.com/templui/jobtracker/internal/validation"
)

const (
	DefaultSweepGrace = 24 * time.Hour

	// Uploads reusing an object older than this rewrite it, so a sweep with a
	// longer grace period sees it as fresh.
	objectRefreshAge = time.Hour

	defaultFilename   = "attachment"
	maxFilenameLength = 255
)

type AttachmentService struct {
	attachments   repository.AttachmentRepository
	applications  repository.ApplicationRepository
	storage       storage.Storage
	maxUploadSize int64
}

func NewAttachmentService(
	attachments repository.AttachmentRepository,
	applications repository.ApplicationRepository,
	store storage.Storage,
	maxUploadSize int64,
) *AttachmentService {
	return &AttachmentService{
		attachments:   attachments,
		applications:  applications,
		storage:       store,
		maxUploadSize: maxUploadSize,
	}
}

func (s *AttachmentService) MaxUploadSize() int64 {
	if s.maxUploadSize <= 0 {
		return validation.DefaultMaxUploadSize
	}
	return s.maxUploadSize
}

// Upload stores data under its content key and records it against applicationID.
// The MIME type comes from the bytes, never from the client. Identical content
// shares one stored object across all users.
func (s *AttachmentService) Upload(ctx context.Context, userID, applicationID, filename string, data []byte) (*model.Attachment, error) {
	err := validation.ValidateUploadSize(int64(len(data)), s.MaxUploadSize())
	if err != nil {
		return nil, err
	}

	_, err = s.applications.ByID(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	mime, ext := sniff.Sniff(data)

	key, err := s.storeContent(ctx, checksum, ext, data)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		ID:               uuid.Must(uuid.NewV7()).String(),
		ApplicationID:    applicationID,
		FilenameOriginal: SanitizeFilename(filename),
		MimeType:         mime,
		SizeBytes:        int64(len(data)),
		StorageKey:       key,
		ChecksumSHA256:   checksum,
		UploadedAt:       time.Now().UTC(),
	}

	// A failed insert leaves the object behind; the sweep reclaims it.
	err = s.attachments.Create(ctx, userID, attachment)
	if err != nil {
		return nil, err
	}

	return attachment, nil
}

// storeContent returns the key holding data. An existing object is reused as is
// unless it is missing or old enough to be a sweep candidate, in which case it
// is rewritten.
func (s *AttachmentService) storeContent(ctx context.Context, checksum, ext string, data []byte) (string, error) {
	key, err := s.attachments.StorageKeyByChecksum(ctx, checksum)
	if err != nil {
		return "", fmt.Errorf("lookup checksum: %w", err)
	}

	if key != "" {
		modTime, err := s.storage.ModTime(ctx, key)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			slog.Warn("referenced object missing, rewriting", "key", key)
		case err != nil:
			return "", fmt.Errorf("check object %s: %w", key, err)
		case time.Since(modTime) < objectRefreshAge:
			return key, nil
		}
	} else {
		key = storage.BuildKey(checksum, ext)
	}

	err = s.storage.Save(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("save object %s: %w", key, err)
	}

	return key, nil
}

// Attachments lists attachments under a visible application. Soft-deleted rows
// are included only on request.
func (s *AttachmentService) Attachments(ctx context.Context, userID, applicationID string, includeDeleted bool) ([]*model.Attachment, error) {
	_, err := s.applications.ByID(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}

	return s.attachments.Attachments(ctx, userID, applicationID, includeDeleted)
}

// Download returns the attachment row and its content. The caller closes the reader.
func (s *AttachmentService) Download(ctx context.Context, userID, id string) (*model.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachments.ByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Open(ctx, attachment.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open object for attachment %s: %w", id, err)
	}

	return attachment, rc, nil
}

// Delete soft-deletes the row. The stored object stays until a sweep finds it
// unreferenced.
func (s *AttachmentService) Delete(ctx context.Context, userID, id string) error {
	return s.attachments.SoftDelete(ctx, userID, id, time.Now().UTC())
}

type SweepReport struct {
	Scanned    int
	Referenced int
	Fresh      int
	Removed    []string
}

// Sweep deletes stored objects older than grace that no live attachment row
// references. With dryRun it only reports what it would remove.
func (s *AttachmentService) Sweep(ctx context.Context, grace time.Duration, dryRun bool) (*SweepReport, error) {
	if grace < 0 {
		return nil, errors.New("sweep grace period must not be negative")
	}

	cutoff := time.Now().Add(-grace)
	report := &SweepReport{}
	var candidates []string

	err := s.storage.Walk(ctx, func(key string, modTime time.Time) error {
		report.Scanned++
		if modTime.After(cutoff) {
			report.Fresh++
			return nil
		}

		referenced, err := s.attachments.StorageKeyReferenced(ctx, key)
		if err != nil {
			return fmt.Errorf("check references for %s: %w", key, err)
		}
		if referenced {
			report.Referenced++
			return nil
		}

		candidates = append(candidates, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range candidates {
		if dryRun {
			report.Removed = append(report.Removed, key)
			continue
		}

		// An upload may have claimed or rewritten the key since the walk.
		referenced, err := s.attachments.StorageKeyReferenced(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check references for %s: %w", key, err)
		}
		if referenced {
			report.Referenced++
			continue
		}

		modTime, err := s.storage.ModTime(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", key, err)
		}
		if modTime.After(cutoff) {
			report.Fresh++
			continue
		}

		err = s.storage.Delete(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", key, err)
		}
		report.Removed = append(report.Removed, key)
	}

	slog.Info("storage sweep finished",
		"scanned", report.Scanned,
		"referenced", report.Referenced,
		"fresh", report.Fresh,
		"removed", len(report.Removed),
		"dry_run", dryRun,
	)

	return report, nil
}

// SanitizeFilename reduces a client filename to a display-safe base name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	name = strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == "/" || name == ".." {
		return defaultFilename
	}

	for len(name) > maxFilenameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}

	return name
}
