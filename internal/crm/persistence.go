package crm

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName   = "crm"
	customersKey = "customers"
)

// Persistence defines the durable storage contract for the record store:
// the whole customer sequence is read once at startup and fully rewritten
// after every mutation.
type Persistence interface {
	// Load reads the persisted customer sequence. A missing document
	// returns (nil, nil).
	Load() ([]*Customer, error)

	// Save replaces the persisted document with the given sequence.
	Save(customers []*Customer) error

	// Close closes the underlying storage
	Close() error
}

// BoltPersistence implements Persistence using BoltDB, holding the
// serialized customer sequence under a single key.
type BoltPersistence struct {
	db *bbolt.DB
}

// NewBoltPersistence opens the database file and ensures the bucket exists
func NewBoltPersistence(path string) (*BoltPersistence, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltPersistence{db: db}, nil
}

// Load reads the customer document. A document that does not unmarshal
// into the expected shape is reported as an error; the store treats that
// the same as absent data.
func (b *BoltPersistence) Load() ([]*Customer, error) {
	var customers []*Customer
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(customersKey))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &customers); err != nil {
			return fmt.Errorf("unmarshaling customers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// Save serializes the full customer sequence and rewrites the document
func (b *BoltPersistence) Save(customers []*Customer) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(customers)
		if err != nil {
			return fmt.Errorf("marshaling customers: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(customersKey), data)
	})
}

// Close closes the database connection
func (b *BoltPersistence) Close() error {
	return b.db.Close()
}
