// Package pricing produces momentary price quotes for supported coins.
package pricing

import (
	"sync"

	"global-pick-trade/internal/domain"
)

// Rand supplies uniform random numbers in [0, 1). *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Oracle produces a current quote for a coin symbol. Implementations must
// be safe for concurrent use; each call is an independent observation.
type Oracle interface {
	// Quote returns the current price for coin. Unsupported symbols
	// return 0, never an error.
	Quote(coin domain.Coin) float64
}

// quoteRange defines the simulated price band for a coin: a fixed base
// plus a bounded uniform jitter.
type quoteRange struct {
	base   float64
	jitter float64
}

var quoteRanges = map[domain.Coin]quoteRange{
	domain.CoinBTC:  {base: 45000, jitter: 500},
	domain.CoinETH:  {base: 2500, jitter: 100},
	domain.CoinLTC:  {base: 70, jitter: 5},
	domain.CoinXRP:  {base: 0.5, jitter: 0.1},
	domain.CoinDOGE: {base: 0.08, jitter: 0.02},
}

// SimulatedOracle generates quotes from fixed base values with bounded
// random jitter. Production deployments replace this with a live feed
// behind the same Oracle interface.
type SimulatedOracle struct {
	mu   sync.Mutex
	rand Rand
}

// NewSimulatedOracle creates an oracle drawing jitter from r.
func NewSimulatedOracle(r Rand) *SimulatedOracle {
	return &SimulatedOracle{rand: r}
}

// Quote returns base + jitter for supported coins, 0 otherwise.
func (o *SimulatedOracle) Quote(coin domain.Coin) float64 {
	r, ok := quoteRanges[coin]
	if !ok {
		return 0
	}

	o.mu.Lock()
	f := o.rand.Float64()
	o.mu.Unlock()

	return r.base + f*r.jitter
}

var _ Oracle = (*SimulatedOracle)(nil)
