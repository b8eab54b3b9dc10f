package memory

import (
	"context"
	"sync"
	"time"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Wallet // keyed by ID
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data: make(map[string]*domain.Wallet),
	}
}

// Insert adds a new wallet. Returns ErrDuplicateKey if the ID or the
// (user, coin) pair exists.
func (s *WalletStore) Insert(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.ID == "" || w.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.ID]; exists {
		return storage.ErrDuplicateKey
	}
	for _, existing := range s.data {
		if existing.UserID == w.UserID && existing.Coin == w.Coin {
			return storage.ErrDuplicateKey
		}
	}

	copy := *w
	s.data[w.ID] = &copy
	return nil
}

// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(_ context.Context, id string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *w
	return &copy, nil
}

// GetByUserAndCoin retrieves the wallet for a (user, coin) pair.
func (s *WalletStore) GetByUserAndCoin(_ context.Context, userID string, coin domain.Coin) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.data {
		if w.UserID == userID && w.Coin == coin {
			copy := *w
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// Update persists w if the version token matches, bumping the version.
// The bumped version is written back into w.
func (s *WalletStore) Update(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.data[w.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if existing.Version != w.Version {
		return storage.ErrVersionConflict
	}

	copy := *w
	copy.Version++
	copy.UpdatedAt = time.Now()
	s.data[w.ID] = &copy

	w.Version = copy.Version
	w.UpdatedAt = copy.UpdatedAt
	return nil
}

var _ storage.WalletStore = (*WalletStore)(nil)
