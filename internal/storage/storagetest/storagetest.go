// Package storagetest holds the behavioural checks every storage.Store
// backend must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"smartfinance/internal/storage"
)

// Run exercises a fresh store returned by open. reopen, when non-nil, must
// close nothing and return a new handle on the same underlying data; it is
// used to check persistence across a simulated restart.
func Run(t *testing.T, open func(t *testing.T) storage.Store, reopen func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		if _, err := s.Get(ctx, storage.KeyExpenses); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put get overwrite delete", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		if err := s.Put(ctx, storage.KeySavingsGoal, []byte(`100000`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, storage.KeySavingsGoal)
		if err != nil || string(got) != `100000` {
			t.Fatalf("Get = %q, %v", got, err)
		}
		if err := s.Put(ctx, storage.KeySavingsGoal, []byte(`250000`)); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		got, _ = s.Get(ctx, storage.KeySavingsGoal)
		if string(got) != `250000` {
			t.Fatalf("after overwrite Get = %q", got)
		}
		if err := s.Delete(ctx, storage.KeySavingsGoal); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, storage.KeySavingsGoal); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, storage.KeySavingsGoal); err != nil {
			t.Fatalf("deleting a missing key should not fail: %v", err)
		}
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		if err := s.Put(ctx, storage.KeyUser, []byte(`{"id":1}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, _ := s.Get(ctx, storage.KeyUser)
		got[0] = 'X'
		again, _ := s.Get(ctx, storage.KeyUser)
		if string(again) != `{"id":1}` {
			t.Fatalf("stored value was mutated through Get result: %q", again)
		}
	})

	if reopen == nil {
		return
	}

	t.Run("survives reopen", func(t *testing.T) {
		s := open(t)
		if err := s.Put(ctx, storage.KeyIncomes, []byte(`[{"id":1,"amount":2000}]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		s2 := reopen(t)
		defer s2.Close()
		got, err := s2.Get(ctx, storage.KeyIncomes)
		if err != nil || string(got) != `[{"id":1,"amount":2000}]` {
			t.Fatalf("after reopen Get = %q, %v", got, err)
		}
	})
}
