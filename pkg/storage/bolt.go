package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("snapshots")
	boltKey    = []byte("current")
)

// BoltBlob keeps the document under a fixed key in a bbolt database.
type BoltBlob struct {
	db *bbolt.DB
}

// NewBoltBlob opens (or creates) the database file and its bucket.
func NewBoltBlob(path string) (*BoltBlob, error) {
	if path == "" {
		path = "./data/signups.bolt"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}

	return &BoltBlob{db: db}, nil
}

// Read returns a copy of the stored document or ErrNotExist.
func (b *BoltBlob) Read(_ context.Context) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return ErrNotExist
		}
		v := bucket.Get(boltKey)
		if v == nil {
			return ErrNotExist
		}
		// v is only valid for the life of the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores the document in a single bolt transaction.
func (b *BoltBlob) Write(_ context.Context, data []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, data)
	})
}

// Close releases the database file lock.
func (b *BoltBlob) Close() error {
	return b.db.Close()
}
