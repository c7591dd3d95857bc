package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltFileName is the database file created inside the backend directory.
const BoltFileName = "jsonedit.db"

var boltBucket = []byte("jsonedit")

// BoltBackend stores keys in a single bbolt bucket. Every call runs in its
// own transaction.
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the database in dir.
func NewBoltBackend(dir string) (*BoltBackend, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	path := filepath.Join(dir, BoltFileName)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

// Read returns a copy of the value stored under key.
func (b *BoltBackend) Read(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Write stores data under key.
func (b *BoltBackend) Write(key string, data []byte) error {
	if key == "" {
		return errors.New("key is required")
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), data)
	})
}

// Remove deletes key.
func (b *BoltBackend) Remove(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
