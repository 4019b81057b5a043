// Package kvstore provides the flat key-value persistence layer of the application.
// Values are JSON-serialized domain records stored in a local BadgerDB instance.
// Reads degrade gracefully: a missing key or a corrupt value never produces an error,
// the caller simply keeps its default
package kvstore

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/log"
)

// Store is a JSON key-value store backed by BadgerDB
type Store struct {
	db     *badger.DB
	logger *logrus.Entry
}

// Open opens (or creates) the store in the given directory
func Open(dir string, logger *logrus.Entry) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, errors.Wrapf(err, "Open: cannot open key-value store at '%s'", dir)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get loads the value stored under the given key into out. It returns false if the
// key does not exist or if the stored value cannot be decoded - in both cases the
// caller's default stays in place and no error is returned. Only infrastructure
// failures of the store itself surface as errors
func (s *Store) Get(key string, out interface{}) (bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "Get: failed to read key '%s'", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.WithError(err).WithField(log.FldKey, key).Error("Stored value is corrupt - falling back to default")
		return false, nil
	}
	return true, nil
}

// Set serializes the given value to JSON and stores it under the given key
func (s *Store) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "Set: failed to serialize value for key '%s'", key)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	return errors.Wrapf(err, "Set: failed to write key '%s'", key)
}

// Delete removes the given key. Deleting a missing key is not an error
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrapf(err, "Delete: failed to delete key '%s'", key)
}

// DeletePrefix removes every key that starts with the given prefix
func (s *Store) DeletePrefix(prefix string) error {
	err := s.db.DropPrefix([]byte(prefix))
	return errors.Wrapf(err, "DeletePrefix: failed to drop prefix '%s'", prefix)
}

// SetIfAbsent stores the value under the key only if the key does not exist yet.
// The check and the write happen inside a single transaction. It returns true if
// this call created the key
func (s *Store) SetIfAbsent(key string, v interface{}) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, errors.Wrapf(err, "SetIfAbsent: failed to serialize value for key '%s'", key)
	}
	created := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		created = true
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return false, errors.Wrapf(err, "SetIfAbsent: failed to write key '%s'", key)
	}
	return created, nil
}
