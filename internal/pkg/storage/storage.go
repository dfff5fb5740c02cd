package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStorage keeps archived exports.
type FileStorage interface {
	// Upload stores file under path and returns the stored key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// GetURL returns a public or presigned URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}

// NewFromConfig builds the backend named by cfg.Type.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (FileStorage, error) {
	switch cfg.Type {
	case "local", "":
		if cfg.BasePath == "" {
			return nil, fmt.Errorf("local storage requires a base path")
		}
		return NewLocalStorage(cfg.BasePath, cfg.BaseURL)
	case "s3":
		return NewS3Storage(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
