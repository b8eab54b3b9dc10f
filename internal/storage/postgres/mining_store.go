package postgres

import (
	"context"
	"fmt"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// MiningOperationStore implements storage.MiningOperationStore using PostgreSQL.
type MiningOperationStore struct {
	pool *Pool
}

// NewMiningOperationStore creates a new MiningOperationStore.
func NewMiningOperationStore(pool *Pool) *MiningOperationStore {
	return &MiningOperationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MiningOperationStore = (*MiningOperationStore)(nil)

// Insert adds a new operation. Returns ErrDuplicateKey if the ID exists.
func (s *MiningOperationStore) Insert(ctx context.Context, op *domain.MiningOperation) error {
	if op == nil || op.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO mining_operations (
			id, user_id, coin, hashrate, mined_amount, status, version, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`

	_, err := s.pool.Exec(ctx, query,
		op.ID, op.UserID, string(op.Coin), op.Hashrate, op.MinedAmount, op.Status, op.Version,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert mining operation: %w", err)
	}
	return nil
}

// GetByID retrieves an operation by ID. Returns ErrNotFound if not exists.
func (s *MiningOperationStore) GetByID(ctx context.Context, id string) (*domain.MiningOperation, error) {
	query := `
		SELECT id, user_id, coin, hashrate, mined_amount, status, version, updated_at
		FROM mining_operations
		WHERE id = $1
	`

	var op domain.MiningOperation
	var coin string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&op.ID, &op.UserID, &coin, &op.Hashrate, &op.MinedAmount, &op.Status, &op.Version, &op.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get mining operation by id: %w", err)
	}
	op.Coin = domain.Coin(coin)
	return &op, nil
}

// GetByStatus retrieves all operations with the given status.
func (s *MiningOperationStore) GetByStatus(ctx context.Context, status string) ([]*domain.MiningOperation, error) {
	query := `
		SELECT id, user_id, coin, hashrate, mined_amount, status, version, updated_at
		FROM mining_operations
		WHERE status = $1
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("get mining operations by status: %w", err)
	}
	defer rows.Close()

	var result []*domain.MiningOperation
	for rows.Next() {
		var op domain.MiningOperation
		var coin string
		if err := rows.Scan(
			&op.ID, &op.UserID, &coin, &op.Hashrate, &op.MinedAmount, &op.Status, &op.Version, &op.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan mining operation: %w", err)
		}
		op.Coin = domain.Coin(coin)
		result = append(result, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mining operations: %w", err)
	}
	return result, nil
}

// Update persists op if op.Version matches the stored version, bumping the
// version atomically. The bumped version is written back into op.
func (s *MiningOperationStore) Update(ctx context.Context, op *domain.MiningOperation) error {
	if op == nil || op.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE mining_operations
		SET hashrate = $1, mined_amount = $2, status = $3,
		    version = version + 1, updated_at = now()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		op.Hashrate, op.MinedAmount, op.Status, op.ID, op.Version,
	).Scan(&op.Version, &op.UpdatedAt)
	if err == nil {
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("update mining operation: %w", err)
	}

	// Zero rows: either the record is gone or the token is stale.
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mining_operations WHERE id = $1)`, op.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check mining operation existence: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrVersionConflict
}
