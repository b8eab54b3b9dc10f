package domain

import "time"

// Broadcast event names.
const (
	EventMiningUpdate  = "mining-update"
	EventPriceUpdate   = "price-update"
	EventTradeExecuted = "trade-executed"
)

// TopicGlobal is the broadcast topic every subscriber receives implicitly.
const TopicGlobal = "global"

// UserTopic returns the per-user broadcast topic for userID.
func UserTopic(userID string) string {
	return "user-" + userID
}

// MiningUpdate is the payload of a mining-update event, published to the
// owner's topic after a successful accrual and wallet credit.
type MiningUpdate struct {
	MiningID      string  `json:"miningId"`
	MinedAmount   float64 `json:"minedAmount"`
	WalletBalance float64 `json:"walletBalance"`
}

// PriceUpdate is the payload of a price-update event: current quote per
// supported coin. Published to the global topic every pricing tick.
type PriceUpdate map[Coin]float64

// TradeExecuted is the payload of a trade-executed event, published to the
// owner's topic after an automated trade persists.
type TradeExecuted struct {
	TradeID   string    `json:"tradeId"`
	Action    string    `json:"action"`
	Price     float64   `json:"price"`
	Profit    float64   `json:"profit"`
	Timestamp time.Time `json:"timestamp"`
}
