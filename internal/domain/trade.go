package domain

import "time"

// Trade status values.
const (
	TradeStatusActive = "active"
	TradeStatusClosed = "closed"
)

// Trade type values.
const (
	TradeTypeManual = "manual"
	TradeTypeAuto   = "auto"
)

// Auto-trade strategy names.
const (
	StrategyScalping = "scalping"
	StrategyTrend    = "trend"
)

// Trade action values.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// AutoTradeConfig controls automated evaluation of a trade position.
type AutoTradeConfig struct {
	Enabled  bool
	Strategy string // scalping | trend
}

// Trade represents a trading position. Positions with status=active,
// type=auto and AutoTrade.Enabled=true are evaluated by the auto-trade
// engine every pricing tick; CurrentPrice, Profit and LastTradeTime mutate
// only through trade execution.
type Trade struct {
	ID        string
	UserID    string
	Coin      Coin
	Status    string // active | closed
	Type      string // manual | auto
	AutoTrade AutoTradeConfig

	EntryPrice    float64 // fixed at creation
	CurrentPrice  float64 // last executed quote
	Amount        float64 // position size
	Profit        float64 // last computed delta
	LastTradeTime time.Time

	Version   int64
	UpdatedAt time.Time
}

// AutoEligible reports whether the position qualifies for automated
// evaluation: status=active, type=auto, auto-trading enabled.
func (t *Trade) AutoEligible() bool {
	return t.Status == TradeStatusActive && t.Type == TradeTypeAuto && t.AutoTrade.Enabled
}
