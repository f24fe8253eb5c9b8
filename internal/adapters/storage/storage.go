package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no object is stored under a key
var ErrNotFound = errors.New("object not found")

// Storage stores proof documents under caller-chosen keys
type Storage interface {
	// Put saves content under key
	Put(ctx context.Context, key string, content io.Reader, contentType string) error

	// Get opens the object stored under key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// URL returns a link an administrator can open, presigned where the backend supports it
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Exists reports whether key is stored
	Exists(ctx context.Context, key string) (bool, error)
}

// Type selects the storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config holds configuration for the storage backends
type Config struct {
	Type      Type
	LocalPath string
	PublicURL string
	S3        *S3Config
}

// S3Config holds the bucket location
type S3Config struct {
	Bucket string
	Region string
}
