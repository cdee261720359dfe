package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// FileStorage keeps uploaded files under relative, slash separated paths
type FileStorage interface {
	WriteFile(ctx context.Context, path string, content []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// Delete succeeds when the file is already gone
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ContentHash returns the hex SHA-256 of content
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// checkPath rejects paths that would escape the storage root
func checkPath(path string) error {
	if path == "" || strings.Contains(path, "..") || filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return fmt.Errorf("invalid storage path %q", path)
	}
	return nil
}
