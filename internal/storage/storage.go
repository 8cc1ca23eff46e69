// Package storage provides the object storage capability used to relocate
// imported media. Backends: S3-compatible object stores, the local
// filesystem, or a disabled no-op.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contentforge/wxrimport/internal/config"
)

// ErrDisabled is returned by the disabled backend. Callers treat it as
// "processed but not relocated": the item is counted and no mapping entry
// is produced.
var ErrDisabled = errors.New("object storage is not configured")

// Store is the contract the media resolver uploads through.
type Store interface {
	// Put stores data under key and returns the public URL it will be
	// served from. Storing the same key twice is allowed and idempotent.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// PublicURL returns the public URL for a key without storing anything.
	PublicURL(key string) string

	// DeletePrefix removes every object under the given key prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// New builds a Store from configuration.
func New(cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "s3":
		return newS3Store(cfg)
	case "fs":
		return newFSStore(cfg)
	case "disabled", "":
		return newDisabledStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// joinURL joins a base URL and a key with exactly one slash.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
