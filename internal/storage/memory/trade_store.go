package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade // keyed by ID
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.ID] = &copy
	return nil
}

// GetByID retrieves a trade by ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, id string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// GetActiveAutoTrades retrieves all positions eligible for automated
// evaluation, ordered by ID for stable iteration.
func (s *TradeStore) GetActiveAutoTrades(_ context.Context) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.AutoEligible() {
			copy := *t
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update persists t if the version token matches, bumping the version.
// The bumped version is written back into t.
func (s *TradeStore) Update(_ context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.data[t.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if existing.Version != t.Version {
		return storage.ErrVersionConflict
	}

	copy := *t
	copy.Version++
	copy.UpdatedAt = time.Now()
	s.data[t.ID] = &copy

	t.Version = copy.Version
	t.UpdatedAt = copy.UpdatedAt
	return nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
