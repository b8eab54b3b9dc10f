package memory

import (
	"context"
	"sync"
	"time"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// MiningOperationStore is an in-memory implementation of storage.MiningOperationStore.
type MiningOperationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MiningOperation // keyed by ID
}

// NewMiningOperationStore creates a new in-memory mining operation store.
func NewMiningOperationStore() *MiningOperationStore {
	return &MiningOperationStore{
		data: make(map[string]*domain.MiningOperation),
	}
}

// Insert adds a new operation. Returns ErrDuplicateKey if the ID exists.
func (s *MiningOperationStore) Insert(_ context.Context, op *domain.MiningOperation) error {
	if op == nil || op.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[op.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *op
	s.data[op.ID] = &copy
	return nil
}

// GetByID retrieves an operation by ID. Returns ErrNotFound if not exists.
func (s *MiningOperationStore) GetByID(_ context.Context, id string) (*domain.MiningOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *op
	return &copy, nil
}

// GetByStatus retrieves all operations with the given status.
func (s *MiningOperationStore) GetByStatus(_ context.Context, status string) ([]*domain.MiningOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MiningOperation
	for _, op := range s.data {
		if op.Status == status {
			copy := *op
			result = append(result, &copy)
		}
	}
	return result, nil
}

// Update persists op if the version token matches, bumping the version.
// The bumped version is written back into op.
func (s *MiningOperationStore) Update(_ context.Context, op *domain.MiningOperation) error {
	if op == nil || op.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.data[op.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if existing.Version != op.Version {
		return storage.ErrVersionConflict
	}

	copy := *op
	copy.Version++
	copy.UpdatedAt = time.Now()
	s.data[op.ID] = &copy

	op.Version = copy.Version
	op.UpdatedAt = copy.UpdatedAt
	return nil
}

var _ storage.MiningOperationStore = (*MiningOperationStore)(nil)
