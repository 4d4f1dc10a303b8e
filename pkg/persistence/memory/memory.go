package memory

import (
	"fmt"
	"sync"

	"github.com/phimine/multisig-wallet/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of IWalletPersistence.
// This implementation is intended for TESTING ONLY.
//
// All data is stored in memory and will be lost when the process exits,
// which also defeats the point of replay protection across restarts.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	ownerSet *persistence.OwnerSetRecord
	nonce    uint64
	closed   bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// SaveOwnerSet persists the owner roster.
func (m *MemoryPersistence) SaveOwnerSet(record *persistence.OwnerSetRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil OwnerSetRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.ownerSet = record.Clone()
	return nil
}

// LoadOwnerSet retrieves the owner roster.
func (m *MemoryPersistence) LoadOwnerSet() (*persistence.OwnerSetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	if m.ownerSet == nil {
		return nil, nil // Not found is not an error
	}
	return m.ownerSet.Clone(), nil
}

// SaveNonce persists the replay counter.
func (m *MemoryPersistence) SaveNonce(nonce uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	m.nonce = nonce
	return nil
}

// LoadNonce retrieves the replay counter.
func (m *MemoryPersistence) LoadNonce() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, fmt.Errorf("persistence layer is closed")
	}

	return m.nonce, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return nil
}
