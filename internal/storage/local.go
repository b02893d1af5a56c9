package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// LocalStorage keeps objects as flat files under a single root directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	err = os.MkdirAll(abs, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &LocalStorage{root: abs}, nil
}

func (s *LocalStorage) Root() string {
	return s.root
}

// ResolvePath maps a key to its absolute path under the root.
func (s *LocalStorage) ResolvePath(key string) (string, error) {
	err := checkKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, key), nil
}

// Save writes to a temp file in the root and renames it over the target.
// Concurrent saves of the same key carry identical bytes, so the last rename wins harmlessly.
func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader) error {
	path, err := s.ResolvePath(key)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	err = atomic.WriteFile(path, r)
	if err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.ResolvePath(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	return f, nil
}

func (s *LocalStorage) ModTime(ctx context.Context, key string) (time.Time, error) {
	path, err := s.ResolvePath(key)
	if err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return info.ModTime(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := s.ResolvePath(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// Walk lists regular files in the root whose names are valid keys.
// Leftover temp files from interrupted writes are skipped.
func (s *LocalStorage) Walk(ctx context.Context, fn func(key string, modTime time.Time) error) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to read storage root: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !ValidKey(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}

		err = fn(entry.Name(), info.ModTime())
		if err != nil {
			return err
		}
	}

	return nil
}
