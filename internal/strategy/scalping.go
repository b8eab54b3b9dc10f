package strategy

import "global-pick-trade/internal/domain"

// defaultScalpingProbability is the per-tick chance that a scalping
// position trades at all.
const defaultScalpingProbability = 0.3

// ScalpingStrategy trades probabilistically: with fixed probability per
// tick, choosing buy or sell uniformly at random. It ignores prices
// entirely; the randomness source is injected so tests can script it.
type ScalpingStrategy struct {
	Probability float64
	rand        Rand
}

// NewScalpingStrategy creates a scalping strategy with the default 30%
// trade probability.
func NewScalpingStrategy(r Rand) *ScalpingStrategy {
	return &ScalpingStrategy{Probability: defaultScalpingProbability, rand: r}
}

// Name returns the strategy identifier.
func (s *ScalpingStrategy) Name() string {
	return domain.StrategyScalping
}

// Decide draws twice from the random source: once for whether to trade,
// once for direction.
func (s *ScalpingStrategy) Decide(Input) Decision {
	if s.rand.Float64() >= s.Probability {
		return Hold
	}

	action := domain.ActionBuy
	if s.rand.Float64() < 0.5 {
		action = domain.ActionSell
	}
	return Decision{Trade: true, Action: action}
}

var _ Strategy = (*ScalpingStrategy)(nil)
