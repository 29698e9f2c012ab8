package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger"
)

// BadgerStore persists collections in an embedded badger database on disk,
// the closest Go equivalent of on-device key-value storage.
type BadgerStore struct {
	db *badger.DB
}

// Compile-time check to ensure BadgerStore implements Store
var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (creating if needed) a badger database at dataDir.
func OpenBadger(dataDir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dataDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", dataDir, err)
	}

	return &BadgerStore{db: db}, nil
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %q: %w", key, err)
	}
	return value, nil
}

// Set writes a single key.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

// SetMulti writes all pairs inside one transaction, so either every key is
// updated or none are.
func (s *BadgerStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for key, value := range values {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger batch set: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
