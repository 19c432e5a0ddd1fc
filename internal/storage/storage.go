package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage defines the interface for file storage operations.
// Paths are slash-separated keys relative to the storage root, e.g. "jobs/<uuid>.png".
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error

	// Delete removes a file at the given path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// GetURL returns a public URL for the file
	GetURL(path string) string
}

// Config holds storage configuration
type Config struct {
	Type      string // local, minio, s3
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For minio/s3
	Region    string // For s3
	AccessKey string
	SecretKey string
	Endpoint  string // minio host:port or custom s3 endpoint
	UseSSL    bool
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// cleanKey нормализует ключ и запрещает выход за пределы корня
func cleanKey(p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
