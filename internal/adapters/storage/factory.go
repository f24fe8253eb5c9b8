package storage

import (
	"context"
	"fmt"
)

// New creates the backend selected by cfg.Type
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal, "":
		basePath := cfg.LocalPath
		if basePath == "" {
			basePath = "./uploads"
		}
		return NewLocalStorage(basePath, cfg.PublicURL)

	case TypeS3:
		if cfg.S3 == nil || cfg.S3.Bucket == "" || cfg.S3.Region == "" {
			return nil, fmt.Errorf("S3 storage requires STORAGE_S3_BUCKET and STORAGE_S3_REGION")
		}
		return NewS3Storage(ctx, *cfg.S3)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
