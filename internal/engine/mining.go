// Package engine holds the periodic settlement engines: mining accrual and
// automated trade execution. Each engine processes one tick's batch with
// per-entity failure isolation: a failed entity is logged and skipped
// without aborting its siblings, and is naturally retried on the next tick.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"global-pick-trade/internal/broadcast"
	"global-pick-trade/internal/domain"
	"global-pick-trade/internal/observability"
	"global-pick-trade/internal/storage"
)

// jobMining labels mining-tick metrics.
const jobMining = "mining"

// rewardRates is the fixed per-coin reward for 100 MH/s over one mining
// tick, in coin units.
var rewardRates = map[domain.Coin]float64{
	domain.CoinBTC:  0.00000001,
	domain.CoinETH:  0.000001,
	domain.CoinLTC:  0.0001,
	domain.CoinXRP:  0.01,
	domain.CoinDOGE: 1,
}

// defaultRewardRate applies to coins missing from the rate table.
const defaultRewardRate = 0.0001

// MiningReward computes the reward accrued by one tick for a coin at the
// given hashrate: rewardRate(coin) * hashrate / 100.
func MiningReward(coin domain.Coin, hashrate float64) float64 {
	rate, ok := rewardRates[coin]
	if !ok {
		rate = defaultRewardRate
	}
	return rate * hashrate / 100
}

// MiningAccrualEngine credits active mining operations and their linked
// wallets once per mining tick.
type MiningAccrualEngine struct {
	mining  storage.MiningOperationStore
	wallets storage.WalletStore
	hub     broadcast.Broadcaster
	logger  *log.Logger
}

// NewMiningAccrualEngine creates a mining accrual engine.
func NewMiningAccrualEngine(mining storage.MiningOperationStore, wallets storage.WalletStore, hub broadcast.Broadcaster, logger *log.Logger) *MiningAccrualEngine {
	return &MiningAccrualEngine{
		mining:  mining,
		wallets: wallets,
		hub:     hub,
		logger:  logger,
	}
}

// RunTick processes all active mining operations. Only a failure to fetch
// the batch is returned; per-operation failures are logged and skipped.
func (e *MiningAccrualEngine) RunTick(ctx context.Context) error {
	ops, err := e.mining.GetByStatus(ctx, domain.MiningStatusActive)
	if err != nil {
		return fmt.Errorf("fetch active mining operations: %w", err)
	}

	for _, op := range ops {
		if err := e.accrue(ctx, op); err != nil {
			e.logger.Printf("accrual for operation %s skipped: %v", op.ID, err)
			observability.RecordEntitySkipped(jobMining, skipReason(err))
			continue
		}
		observability.RecordEntityProcessed(jobMining)
	}
	return nil
}

// accrue adds one tick's reward to the operation, credits the owning
// wallet and publishes a mining-update to the owner's topic. A missing
// wallet skips the credit and the publish without failing the operation.
// The event goes out only after both records persisted.
func (e *MiningAccrualEngine) accrue(ctx context.Context, op *domain.MiningOperation) error {
	reward := MiningReward(op.Coin, op.Hashrate)

	op.MinedAmount += reward
	if err := e.mining.Update(ctx, op); err != nil {
		return fmt.Errorf("update mining operation: %w", err)
	}

	wallet, err := e.wallets.GetByUserAndCoin(ctx, op.UserID, op.Coin)
	if errors.Is(err, storage.ErrNotFound) {
		// Accrual stands, credit target does not exist.
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up wallet for user %s coin %s: %w", op.UserID, op.Coin, err)
	}

	wallet.Balance += reward
	if err := e.wallets.Update(ctx, wallet); err != nil {
		return fmt.Errorf("credit wallet %s: %w", wallet.ID, err)
	}

	e.hub.Publish(domain.UserTopic(op.UserID), domain.EventMiningUpdate, domain.MiningUpdate{
		MiningID:      op.ID,
		MinedAmount:   op.MinedAmount,
		WalletBalance: wallet.Balance,
	})
	observability.RecordEventPublished(domain.EventMiningUpdate)
	return nil
}

// skipReason maps an entity failure to a metrics label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	default:
		return "store_error"
	}
}
