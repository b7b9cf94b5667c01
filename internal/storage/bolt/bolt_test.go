package bolt

import (
	"path/filepath"
	"testing"

	"smartfinance/internal/storage"
	"smartfinance/internal/storage/storagetest"
)

func TestBoltStore(t *testing.T) {
	var path string
	open := func(t *testing.T) storage.Store {
		path = filepath.Join(t.TempDir(), "data", "finance.bolt")
		s, err := New(path)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return s
	}
	reopen := func(t *testing.T) storage.Store {
		s, err := New(path)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		return s
	}
	storagetest.Run(t, open, reopen)
}
