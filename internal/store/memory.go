package store

import (
	"sync"

	"github.com/evadsh3ll/axelx/internal/model"
)

// MemoryStore is an in-memory WalletStore for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.WalletRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]model.WalletRecord)}
}

// Get loads one owner's wallet record.
func (s *MemoryStore) Get(ownerID string) (*model.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[ownerID]
	if !ok {
		return nil, &model.NotFoundError{Message: "no wallet for this user"}
	}
	return &record, nil
}

// Save writes a wallet record.
func (s *MemoryStore) Save(record *model.WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.OwnerID] = *record
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
