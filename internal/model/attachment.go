package model

import (
	"time"
)

type Attachment struct {
	ID               string     `db:"id" json:"id"`
	ApplicationID    string     `db:"application_id" json:"application_id"`
	FilenameOriginal string     `db:"filename_original" json:"filename_original"` // Client supplied, display only
	MimeType         string     `db:"mime_type" json:"mime_type"`                 // Sniffed from content
	SizeBytes        int64      `db:"size_bytes" json:"size_bytes"`
	StorageKey       string     `db:"storage_key" json:"-"`
	ChecksumSHA256   string     `db:"checksum_sha256" json:"checksum_sha256"`
	UploadedAt       time.Time  `db:"uploaded_at" json:"uploaded_at"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

func (a *Attachment) Deleted() bool {
	return a.DeletedAt != nil
}
