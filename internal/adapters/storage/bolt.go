package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltOpenTimeout = 2 * time.Second

// BoltStorage is a LocalStorage backed by a bbolt file, one bucket per origin.
type BoltStorage struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltStorage opens (or creates) the database at path and ensures the origin bucket exists.
func NewBoltStorage(path, origin string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	db, err := bolt.Open(path, filePermissions, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt storage: %w", err)
	}
	if origin == "" {
		origin = "default"
	}
	bucket := []byte(origin)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket %q: %w", origin, err)
	}
	return &BoltStorage{db: db, bucket: bucket}, nil
}

func (b *BoltStorage) GetItem(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

func (b *BoltStorage) SetItem(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), []byte(value))
	})
}

func (b *BoltStorage) RemoveItem(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
}

// Close releases the database file lock.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}
