package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps images on the local filesystem under a root uploads
// directory, one subdirectory per grouping key. Files are served back as
// static content at /uploads/<groupKey>/<name>.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates the uploads root if it does not exist yet.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		basePath = "./uploads"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalStore{basePath: basePath}, nil
}

// Store writes the normalized bytes under the grouping key and returns the
// public path. The compressed- prefix is kept for compatibility with links
// already handed out by earlier deployments.
func (s *LocalStore) Store(ctx context.Context, groupKey string, data []byte, ext string) (string, error) {
	if groupKey == "" {
		return "", fmt.Errorf("grouping key is empty")
	}

	dir := filepath.Join(s.basePath, groupKey)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create group directory: %w", err)
	}

	name := "compressed-" + uniqueName(ext)
	fullPath := filepath.Join(dir, name)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return fmt.Sprintf("/uploads/%s/%s", groupKey, name), nil
}

// BasePath returns the uploads root, used to mount the static file route.
func (s *LocalStore) BasePath() string {
	return s.basePath
}
