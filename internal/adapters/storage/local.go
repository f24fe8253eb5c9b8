package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage keeps objects on disk under basePath
type LocalStorage struct {
	basePath  string
	publicURL string
}

// NewLocalStorage creates basePath if needed
func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	return &LocalStorage{
		basePath:  abs,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// resolve maps key to a path inside basePath, rejecting traversal
func (ls *LocalStorage) resolve(key string) (string, error) {
	full, err := filepath.Abs(filepath.Join(ls.basePath, key))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if full != ls.basePath && !strings.HasPrefix(full, ls.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q: path traversal detected", key)
	}
	return full, nil
}

func (ls *LocalStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func (ls *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns publicURL/key; the HTTP layer serves basePath there
func (ls *LocalStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := ls.resolve(key); err != nil {
		return "", err
	}
	return ls.publicURL + "/" + filepath.ToSlash(key), nil
}

func (ls *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := ls.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// BasePath returns the directory objects are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
