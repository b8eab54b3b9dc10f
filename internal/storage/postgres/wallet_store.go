package postgres

import (
	"context"
	"fmt"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if the ID or the
// (user, coin) pair exists (unique index on user_id, coin).
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.ID == "" || w.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallets (id, user_id, coin, balance, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`

	_, err := s.pool.Exec(ctx, query, w.ID, w.UserID, string(w.Coin), w.Balance, w.Version)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, coin, balance, version, updated_at
		FROM wallets
		WHERE id = $1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, id))
}

// GetByUserAndCoin retrieves the wallet for a (user, coin) pair.
func (s *WalletStore) GetByUserAndCoin(ctx context.Context, userID string, coin domain.Coin) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, coin, balance, version, updated_at
		FROM wallets
		WHERE user_id = $1 AND coin = $2
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, userID, string(coin)))
}

// Update persists w if w.Version matches the stored version, bumping the
// version atomically. The bumped version is written back into w.
func (s *WalletStore) Update(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE wallets
		SET balance = $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3
		RETURNING version, updated_at
	`

	err := s.pool.QueryRow(ctx, query, w.Balance, w.ID, w.Version).Scan(&w.Version, &w.UpdatedAt)
	if err == nil {
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("update wallet: %w", err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, w.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check wallet existence: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrVersionConflict
}

// rowScanner abstracts pgx.Row for single-row scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *WalletStore) scanOne(row rowScanner) (*domain.Wallet, error) {
	var w domain.Wallet
	var coin string
	err := row.Scan(&w.ID, &w.UserID, &coin, &w.Balance, &w.Version, &w.UpdatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	w.Coin = domain.Coin(coin)
	return &w, nil
}
