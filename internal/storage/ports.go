package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys under which the application state is persisted. Values are JSON.
const (
	KeyUser            = "smart_user"
	KeyExpenses        = "smart_expenses"
	KeyIncomes         = "smart_incomes"
	KeySavingsGoal     = "smart_savings_goal"
	KeyWeddingExpenses = "smart_marriage_expenses"
	KeyWeddingGoal     = "smart_marriage_goal"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// Store is the durable key-value contract. A successful Put must be visible
// to every later Get in the same process.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys lists every key the application writes, in a stable order.
func Keys() []string {
	return []string{KeyUser, KeyExpenses, KeyIncomes, KeySavingsGoal, KeyWeddingExpenses, KeyWeddingGoal}
}

// GetJSON decodes the value under key into v. It reports false without error
// when the key is absent, leaving v untouched.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Export copies every known key that is present into a single document.
func Export(ctx context.Context, s Store) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	for _, key := range Keys() {
		data, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		out[key] = json.RawMessage(data)
	}
	return out, nil
}

// Import writes every known key found in doc. Unknown keys are rejected so a
// typo cannot silently drop data.
func Import(ctx context.Context, s Store, doc map[string]json.RawMessage) error {
	known := make(map[string]bool, len(Keys()))
	for _, k := range Keys() {
		known[k] = true
	}
	for key := range doc {
		if !known[key] {
			return fmt.Errorf("import: unknown key %q", key)
		}
	}
	for _, key := range Keys() {
		data, ok := doc[key]
		if !ok {
			continue
		}
		if !json.Valid(data) {
			return fmt.Errorf("import %s: invalid JSON", key)
		}
		if err := s.Put(ctx, key, data); err != nil {
			return fmt.Errorf("import %s: %w", key, err)
		}
	}
	return nil
}
