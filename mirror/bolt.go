package mirror

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("storefront")

// Bolt stores documents in a single bucket of a bbolt file
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bbolt file at path
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("mirror: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mirror: create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key string, v any) (bool, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket(bucketName).Get([]byte(key)); raw != nil {
			// raw is only valid inside the transaction
			data = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("mirror: read %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	return true, decode(key, data, v)
}

func (b *Bolt) Put(_ context.Context, key string, v any) error {
	data, err := encode(key, v)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
}

func (b *Bolt) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
