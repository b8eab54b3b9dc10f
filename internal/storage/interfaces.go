package storage

import (
	"context"

	"global-pick-trade/internal/domain"
)

// MiningOperationStore provides access to mining operation storage.
type MiningOperationStore interface {
	// Insert adds a new operation. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, op *domain.MiningOperation) error

	// GetByID retrieves an operation by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.MiningOperation, error)

	// GetByStatus retrieves all operations with the given status.
	GetByStatus(ctx context.Context, status string) ([]*domain.MiningOperation, error)

	// Update persists op if op.Version matches the stored version, bumping
	// the version on success. Returns ErrVersionConflict on a stale token,
	// ErrNotFound if the record does not exist.
	Update(ctx context.Context, op *domain.MiningOperation) error
}

// WalletStore provides access to wallet storage.
type WalletStore interface {
	// Insert adds a new wallet. Returns ErrDuplicateKey if the ID or the
	// (user, coin) pair exists.
	Insert(ctx context.Context, w *domain.Wallet) error

	// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)

	// GetByUserAndCoin retrieves the wallet for a (user, coin) pair.
	// Returns ErrNotFound if the user has no wallet for that coin.
	GetByUserAndCoin(ctx context.Context, userID string, coin domain.Coin) (*domain.Wallet, error)

	// Update persists w under the same version rules as MiningOperationStore.Update.
	Update(ctx context.Context, w *domain.Wallet) error
}

// TradeStore provides access to trade position storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// GetByID retrieves a trade by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Trade, error)

	// GetActiveAutoTrades retrieves all positions eligible for automated
	// evaluation: status=active, type=auto, autoTrade enabled.
	GetActiveAutoTrades(ctx context.Context) ([]*domain.Trade, error)

	// Update persists t under the same version rules as MiningOperationStore.Update.
	Update(ctx context.Context, t *domain.Trade) error
}

// QuotePoint is one observed quote for a coin at a point in time.
type QuotePoint struct {
	Coin        domain.Coin
	TimestampMs int64
	Price       float64
}

// QuoteHistoryStore records per-tick quote observations for analytics.
// Writes are best-effort: a failed append never fails the pricing tick.
type QuoteHistoryStore interface {
	// InsertBulk appends quote points.
	InsertBulk(ctx context.Context, points []*QuotePoint) error

	// GetByCoin retrieves all points for a coin, ordered by timestamp ASC.
	GetByCoin(ctx context.Context, coin domain.Coin) ([]*QuotePoint, error)

	// GetByTimeRange retrieves points for a coin within [start, end]
	// (inclusive, milliseconds), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, coin domain.Coin, start, end int64) ([]*QuotePoint, error)
}
