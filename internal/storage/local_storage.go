package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage persists files to the local filesystem.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage instance. The directory is created if
// it does not exist.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/images"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// LocalBaseDir returns the root directory used for storing files.
func (s *LocalStorage) LocalBaseDir() string {
	return s.baseDir
}

// Save writes the provided bytes to disk and returns a relative path that can
// later be used to build a public URL.
func (s *LocalStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	category := sanitizePathSegment(opts.Category)
	if category == "" {
		category = "misc"
	}

	ext := strings.TrimPrefix(strings.TrimSpace(opts.Extension), ".")
	if ext == "" {
		ext = "bin"
	}

	now := time.Now().UTC()
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())
	relativeDir := path.Join(category, datedir)
	filename := fmt.Sprintf("%d.%s", now.UnixNano(), ext)
	relativePath := path.Join(relativeDir, filename)

	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relativeDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return relativePath, nil
}

// Delete removes a previously saved file. Missing files are not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("empty key")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// 拒绝跳出 baseDir 的路径
	cleaned := path.Clean("/" + trimmed)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return errors.New("invalid key")
	}

	absPath := filepath.Join(s.baseDir, filepath.FromSlash(cleaned))
	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

var _ Storage = (*LocalStorage)(nil)
var _ LocalBaseDirProvider = (*LocalStorage)(nil)
