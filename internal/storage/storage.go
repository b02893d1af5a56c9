// Package storage holds attachment bytes under content-derived keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	cfg "github.com/templui/jobtracker/internal/config"
)

var (
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("object not found")
)

// Keys are "{sha256 hex}.{ext}". Nothing else ever reaches a backend.
var keyPattern = regexp.MustCompile(`^[0-9a-f]{64}\.[a-z0-9]{1,8}$`)

// Storage defines the operations the attachment pipeline needs from a backend
type Storage interface {
	// Save stores r under key. Readers never observe a partial object.
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the object for key, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// ModTime returns when key was last written, or ErrNotFound.
	ModTime(ctx context.Context, key string) (time.Time, error)

	Delete(ctx context.Context, key string) error

	// Walk calls fn for every stored key with its last modification time.
	Walk(ctx context.Context, fn func(key string, modTime time.Time) error) error
}

// BuildKey derives the storage key from a checksum and a sniffed extension.
func BuildKey(checksumHex, ext string) string {
	if ext == "" {
		ext = "bin"
	}
	return checksumHex + "." + ext
}

func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// New creates the backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
			"prefix", c.S3Prefix,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
			Prefix:    c.S3Prefix,
		})
	case "local", "":
		slog.Info("initializing local storage", "root", c.StorageRoot)
		return NewLocalStorage(c.StorageRoot)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
