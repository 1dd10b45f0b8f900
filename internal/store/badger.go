// Package store persists custody wallet records.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/evadsh3ll/axelx/internal/model"

	badger "github.com/dgraph-io/badger/v4"
)

// WalletStore is the key-value persistence the custody layer needs: one
// record per owner, written once at wallet creation.
type WalletStore interface {
	Get(ownerID string) (*model.WalletRecord, error)
	Save(record *model.WalletRecord) error
	Close() error
}

const walletKeyPrefix = "wallet:"

// BadgerStore keeps wallet records in an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the database at path.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get loads one owner's wallet record. Unknown owners yield NotFoundError.
func (s *BadgerStore) Get(ownerID string) (*model.WalletRecord, error) {
	var record model.WalletRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(walletKeyPrefix + ownerID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &model.NotFoundError{Message: "no wallet for this user"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet record: %w", err)
	}
	return &record, nil
}

// Save writes a wallet record.
func (s *BadgerStore) Save(record *model.WalletRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(walletKeyPrefix+record.OwnerID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write wallet record: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Owners lists all owner ids with a stored wallet. Used by the secret
// rotation tool.
func (s *BadgerStore) Owners() ([]string, error) {
	var owners []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(walletKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			owners = append(owners, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet records: %w", err)
	}
	return owners, nil
}
