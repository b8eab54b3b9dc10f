package domain

import "time"

// Mining operation status values.
const (
	MiningStatusActive  = "active"
	MiningStatusPaused  = "paused"
	MiningStatusStopped = "stopped"
)

// MiningOperation represents a simulated mining rig owned by a user.
// MinedAmount only increases while the operation is active; a stopped
// operation is never mutated again.
type MiningOperation struct {
	ID          string
	UserID      string
	Coin        Coin
	Hashrate    float64 // MH/s, >= 0
	MinedAmount float64 // accumulated reward in coin units
	Status      string  // active | paused | stopped

	// Version is the optimistic-concurrency token. Stores bump it on
	// every successful update and reject stale writers.
	Version   int64
	UpdatedAt time.Time
}
