package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"smartfinance/internal/storage"
)

// Store keeps values in a map. A store made by New loses everything when the
// process exits; one made by NewFromFiles also writes every change to
// <base>/<key>.json and reads those files back on the next start.
type Store struct {
	mu    sync.Mutex
	items map[string][]byte
	base  string
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewFromFiles seeds the store from <base>/<key>.json for every known key and
// writes later changes back to the same files. Missing files are skipped;
// files that are not valid JSON are ignored with a warning.
func NewFromFiles(base string) *Store {
	s := New()
	s.base = base
	for _, key := range storage.Keys() {
		path := s.path(key)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !json.Valid(data) {
			slog.Warn("Ignoring invalid seed file", "path", path)
			continue
		}
		s.items[key] = data
	}
	return s
}

// Persistent reports whether changes are written to disk.
func (s *Store) Persistent() bool {
	return s.base != ""
}

func (s *Store) path(key string) string {
	return filepath.Join(s.base, key+".json")
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the value. With a base directory the file is written first,
// and the map is left untouched when that fails.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base != "" {
		if err := writeFileAtomic(s.path(key), value); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base != "" {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	delete(s.items, key)
	return nil
}

func (s *Store) Close() error { return nil }

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
