// Package bolt stores application keys in a single bbolt bucket.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"smartfinance/internal/storage"
)

// BucketName holds every application key.
const BucketName = "smartfinance"

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the database file and makes sure the bucket exists.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketName)); err != nil {
			return fmt.Errorf("create bucket %s: %w", BucketName, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get copies the value out of the read transaction; bbolt memory is only
// valid while the transaction is open.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketName)).Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Put([]byte(key), value)
	})
}

func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketName)).Delete([]byte(key))
	})
}
