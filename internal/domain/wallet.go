package domain

import "time"

// Wallet holds a user's balance for a single coin. There is at most one
// wallet per (UserID, Coin) pair; the accrual engine uses that pair as the
// credit-target key.
type Wallet struct {
	ID      string
	UserID  string
	Coin    Coin
	Balance float64

	Version   int64
	UpdatedAt time.Time
}
