package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/contentforge/wxrimport/internal/config"
)

// fsStore stores media under a local directory served by something else
// (nginx, a CDN sync job). Useful for development and single-host deploys.
type fsStore struct {
	root       string
	publicBase string
}

func newFSStore(cfg config.StorageConfig) (*fsStore, error) {
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", cfg.LocalDir, err)
	}
	return &fsStore{
		root:       cfg.LocalDir,
		publicBase: cfg.PublicBaseURL,
	}, nil
}

// keyPath maps an object key onto a path under root, rejecting traversal.
func (s *fsStore) keyPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(key, "/")))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *fsStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return s.PublicURL(key), nil
}

func (s *fsStore) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

func (s *fsStore) DeletePrefix(_ context.Context, prefix string) error {
	path, err := s.keyPath(prefix)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
