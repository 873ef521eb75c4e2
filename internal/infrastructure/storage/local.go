// Package storage persists complaint photos.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/civictrack/civictrack/internal/shared/logger"
)

// LocalStore writes media under a directory on disk and hands back a URL
// under baseURL.
type LocalStore struct {
	root    string
	baseURL string
	logger  logger.Interface
}

func NewLocalStore(root, baseURL string, logger logger.Interface) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local media directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *LocalStore) Store(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial photo.
	tmp := target + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write media: %w", err)
	}

	s.logger.Debugw("media stored on disk", "key", clean, "bytes", len(data))
	return s.baseURL + "/" + clean, nil
}

// Root returns the directory served under baseURL.
func (s *LocalStore) Root() string {
	return s.root
}

func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || clean != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return clean, nil
}
