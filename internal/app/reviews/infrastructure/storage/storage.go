package storage

import (
	"context"
	"fmt"
	"time"

	"bikereviews/internal/app/reviews/config"

	"github.com/google/uuid"
)

// Store persists normalized image bytes under a grouping key and
// returns a retrievable locator (path or URL).
type Store interface {
	Store(ctx context.Context, groupKey string, data []byte, ext string) (string, error)
}

// NewImageStore creates a storage backend based on configuration.
// Supported types: local (directory on disk), s3.
func NewImageStore(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg.UploadsDir)
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// uniqueName builds a time-based unique file name: <unixnano>-<rand><ext>.
func uniqueName(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
}
