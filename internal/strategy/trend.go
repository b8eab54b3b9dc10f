package strategy

import "global-pick-trade/internal/domain"

// trendRiseThreshold is the relative rise above entry that triggers a buy.
const trendRiseThreshold = 1.02

// TrendStrategy buys deterministically once the quote has risen more than
// 2% above the entry price, and holds otherwise.
type TrendStrategy struct{}

// NewTrendStrategy creates a trend-following strategy.
func NewTrendStrategy() *TrendStrategy {
	return &TrendStrategy{}
}

// Name returns the strategy identifier.
func (s *TrendStrategy) Name() string {
	return domain.StrategyTrend
}

// Decide issues a buy iff CurrentQuote > EntryPrice * 1.02.
func (s *TrendStrategy) Decide(input Input) Decision {
	if input.CurrentQuote > input.EntryPrice*trendRiseThreshold {
		return Decision{Trade: true, Action: domain.ActionBuy}
	}
	return Hold
}

var _ Strategy = (*TrendStrategy)(nil)
