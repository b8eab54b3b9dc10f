package strategy

import "global-pick-trade/internal/domain"

// FromName creates the Strategy for a position's configured strategy name.
// Unrecognized names yield a HoldStrategy that never trades.
func FromName(name string, r Rand) Strategy {
	switch name {
	case domain.StrategyScalping:
		return NewScalpingStrategy(r)
	case domain.StrategyTrend:
		return NewTrendStrategy()
	default:
		return &HoldStrategy{name: name}
	}
}
