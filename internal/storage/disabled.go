package storage

import (
	"context"
	"log/slog"
	"sync"
)

// disabledStore is used when no object storage is configured. Media items
// are still processed and counted by the resolver, but every Put fails
// with ErrDisabled so no URL mapping is produced. The warning is logged
// once per process, not once per asset.
type disabledStore struct {
	warnOnce sync.Once
}

func newDisabledStore() *disabledStore {
	return &disabledStore{}
}

func (s *disabledStore) Put(context.Context, string, []byte, string) (string, error) {
	s.warnOnce.Do(func() {
		slog.Warn("object storage not configured; media will not be relocated")
	})
	return "", ErrDisabled
}

func (s *disabledStore) PublicURL(string) string { return "" }

func (s *disabledStore) DeletePrefix(context.Context, string) error { return nil }
