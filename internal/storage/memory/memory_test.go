package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"smartfinance/internal/storage"
	"smartfinance/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() }, nil)
}

func TestFileBackedStore(t *testing.T) {
	var dir string
	open := func(t *testing.T) storage.Store {
		dir = filepath.Join(t.TempDir(), "data")
		return NewFromFiles(dir)
	}
	reopen := func(t *testing.T) storage.Store {
		return NewFromFiles(dir)
	}
	storagetest.Run(t, open, reopen)
}

func TestFileBackedStoreWritesThrough(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := NewFromFiles(dir)
	if !s.Persistent() || New().Persistent() {
		t.Fatal("Persistent() should report whether a base directory is set")
	}

	if err := s.Put(ctx, storage.KeyExpenses, []byte(`[{"id":1,"amount":864.13}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "smart_expenses.json"))
	if err != nil || string(data) != `[{"id":1,"amount":864.13}]` {
		t.Fatalf("file = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	if err := s.Delete(ctx, storage.KeyExpenses); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "smart_expenses.json")); !os.IsNotExist(err) {
		t.Errorf("file still present after Delete: %v", err)
	}
	if _, err := NewFromFiles(dir).Get(ctx, storage.KeyExpenses); err != storage.ErrNotFound {
		t.Errorf("deleted key came back after reopen: %v", err)
	}
}

func TestFileBackedStoreFailedWriteKeepsValue(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// A regular file where the directory should be makes every write fail.
	s := NewFromFiles(filepath.Join(blocker, "data"))
	if err := s.Put(ctx, storage.KeyUser, []byte(`{}`)); err == nil {
		t.Fatal("expected Put to fail")
	}
	if _, err := s.Get(ctx, storage.KeyUser); err != storage.ErrNotFound {
		t.Errorf("failed Put changed the store: %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("smart_savings_goal.json", "75000\n")
	mustWrite("smart_incomes.json", "{not json")
	mustWrite("unrelated.json", "[]")

	s := NewFromFiles(dir)
	ctx := context.Background()

	got, err := s.Get(ctx, storage.KeySavingsGoal)
	if err != nil || string(got) != "75000\n" {
		t.Fatalf("seeded goal = %q, %v", got, err)
	}
	if _, err := s.Get(ctx, storage.KeyIncomes); err != storage.ErrNotFound {
		t.Fatalf("invalid seed file should be skipped, got err=%v", err)
	}
	if _, err := s.Get(ctx, "unrelated"); err != storage.ErrNotFound {
		t.Fatalf("unknown files must not be loaded, got err=%v", err)
	}
}

func TestNewFromFilesMissingDir(t *testing.T) {
	s := NewFromFiles(filepath.Join(t.TempDir(), "nope"))
	if _, err := s.Get(context.Background(), storage.KeyUser); err != storage.ErrNotFound {
		t.Fatalf("expected empty store, got err=%v", err)
	}
}
