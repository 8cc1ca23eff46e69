package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contentforge/wxrimport/internal/config"
)

func newTestFSStore(t *testing.T) (*fsStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := newFSStore(config.StorageConfig{
		Backend:       "fs",
		LocalDir:      dir,
		PublicBaseURL: "https://cdn.example.com/media",
	})
	if err != nil {
		t.Fatalf("newFSStore: %v", err)
	}
	return s, dir
}

func TestFSStorePut(t *testing.T) {
	s, dir := newTestFSStore(t)

	url, err := s.Put(context.Background(), "media/ab/cd.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "https://cdn.example.com/media/media/ab/cd.png" {
		t.Errorf("Put URL = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "media", "ab", "cd.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestFSStorePutIdempotent(t *testing.T) {
	s, _ := newTestFSStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "k.png", []byte("a"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "k.png", []byte("a"), ""); err != nil {
		t.Fatalf("second Put of same key: %v", err)
	}
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	s, _ := newTestFSStore(t)

	if _, err := s.Put(context.Background(), "../escape.png", []byte("x"), ""); err == nil {
		t.Fatal("Put accepted a traversal key")
	}
}

func TestFSStoreDeletePrefix(t *testing.T) {
	s, dir := newTestFSStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "media/a.png", []byte("a"), ""); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePrefix(ctx, "media"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "media")); !os.IsNotExist(err) {
		t.Errorf("prefix still exists after DeletePrefix")
	}
}

func TestDisabledStore(t *testing.T) {
	s := newDisabledStore()

	_, err := s.Put(context.Background(), "k.png", []byte("x"), "")
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Put error = %v, want ErrDisabled", err)
	}
	if got := s.PublicURL("k.png"); got != "" {
		t.Errorf("PublicURL = %q, want empty", got)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	if _, err := New(config.StorageConfig{Backend: "bogus"}); err == nil {
		t.Error("New accepted unknown backend")
	}
	if s, err := New(config.StorageConfig{Backend: "disabled"}); err != nil || s == nil {
		t.Errorf("New(disabled) = %v, %v", s, err)
	}
}
