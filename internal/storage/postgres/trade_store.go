package postgres

import (
	"context"
	"fmt"

	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	id, user_id, coin, status, type,
	auto_enabled, auto_strategy,
	entry_price, current_price, amount, profit, last_trade_time,
	version, updated_at
`

// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, string(t.Coin), t.Status, t.Type,
		t.AutoTrade.Enabled, t.AutoTrade.Strategy,
		t.EntryPrice, t.CurrentPrice, t.Amount, t.Profit, t.LastTradeTime,
		t.Version,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`

	var t domain.Trade
	var coin string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &coin, &t.Status, &t.Type,
		&t.AutoTrade.Enabled, &t.AutoTrade.Strategy,
		&t.EntryPrice, &t.CurrentPrice, &t.Amount, &t.Profit, &t.LastTradeTime,
		&t.Version, &t.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	t.Coin = domain.Coin(coin)
	return &t, nil
}

// GetActiveAutoTrades retrieves all positions eligible for automated
// evaluation: status=active, type=auto, auto trading enabled.
func (s *TradeStore) GetActiveAutoTrades(ctx context.Context) ([]*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE status = $1 AND type = $2 AND auto_enabled = true
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, domain.TradeStatusActive, domain.TradeTypeAuto)
	if err != nil {
		return nil, fmt.Errorf("get active auto trades: %w", err)
	}
	defer rows.Close()

	var result []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var coin string
		if err := rows.Scan(
			&t.ID, &t.UserID, &coin, &t.Status, &t.Type,
			&t.AutoTrade.Enabled, &t.AutoTrade.Strategy,
			&t.EntryPrice, &t.CurrentPrice, &t.Amount, &t.Profit, &t.LastTradeTime,
			&t.Version, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Coin = domain.Coin(coin)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return result, nil
}

// Update persists t if t.Version matches the stored version, bumping the
// version atomically. The bumped version is written back into t.
func (s *TradeStore) Update(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE trades
		SET status = $1, auto_enabled = $2, auto_strategy = $3,
		    current_price = $4, profit = $5, last_trade_time = $6,
		    version = version + 1, updated_at = now()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		t.Status, t.AutoTrade.Enabled, t.AutoTrade.Strategy,
		t.CurrentPrice, t.Profit, t.LastTradeTime,
		t.ID, t.Version,
	).Scan(&t.Version, &t.UpdatedAt)
	if err == nil {
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("update trade: %w", err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trades WHERE id = $1)`, t.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check trade existence: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrVersionConflict
}
