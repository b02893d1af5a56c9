package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checksum = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func TestBuildKey(t *testing.T) {
	assert.Equal(t, checksum+".png", BuildKey(checksum, "png"))
	assert.Equal(t, checksum+".bin", BuildKey(checksum, ""))
	assert.True(t, ValidKey(BuildKey(checksum, "")))
}

func TestValidKey(t *testing.T) {
	invalid := []string{
		"",
		"../etc/passwd",
		checksum,
		checksum + ".",
		checksum + ".PNG",
		"../" + checksum + ".png",
		checksum + ".png/../../x",
		strings.ToUpper(checksum) + ".png",
		checksum[:63] + ".png",
	}
	for _, key := range invalid {
		assert.False(t, ValidKey(key), key)
	}
}

func TestLocalResolvePathRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.ResolvePath("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)

	path, err := s.ResolvePath(checksum + ".txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), checksum+".txt"), path)
}

func TestLocalSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	key := BuildKey(checksum, "txt")

	_, err = s.ModTime(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, key, strings.NewReader("test")))

	modTime, err := s.ModTime(ctx, key)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), modTime, time.Minute)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "test", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting a missing object is not an error")

	_, err = s.ModTime(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalConcurrentSavesOfSameKey(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key := BuildKey(checksum, "bin")
	content := bytes.Repeat([]byte("resume"), 4096)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Save(ctx, key, bytes.NewReader(content))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	path, err := s.ResolvePath(key)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLocalWalkSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key := BuildKey(checksum, "pdf")
	require.NoError(t, s.Save(ctx, key, strings.NewReader("%PDF-")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "sub"), 0o755))

	var keys []string
	err = s.Walk(ctx, func(k string, modTime time.Time) error {
		keys = append(keys, k)
		assert.WithinDuration(t, time.Now(), modTime, time.Minute)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}
