package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LocalFileStorage keeps files under a directory on disk
type LocalFileStorage struct {
	basePath string
}

var _ FileStorage = (*LocalFileStorage)(nil)

// NewLocalFileStorage creates a storage rooted at basePath
func NewLocalFileStorage(basePath string) *LocalFileStorage {
	return &LocalFileStorage{basePath: basePath}
}

// GetFullPath returns the on-disk location of a relative path
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+relativePath))
}

// WriteFile writes through a temp file and rename, so readers never see a partial file
func (s *LocalFileStorage) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := checkPath(path); err != nil {
		return err
	}
	fullPath := s.GetFullPath(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	log.Debug().Str("path", fullPath).Int("size", len(content)).Msg("Writing file")
	return os.Rename(tmp.Name(), fullPath)
}

func (s *LocalFileStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return os.ReadFile(s.GetFullPath(path))
}

func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	fullPath := s.GetFullPath(path)
	log.Debug().Str("path", fullPath).Msg("Deleting file")
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalFileStorage) Exists(ctx context.Context, path string) (bool, error) {
	if err := checkPath(path); err != nil {
		return false, err
	}
	_, err := os.Stat(s.GetFullPath(path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
