package strategy

// Input holds the data a strategy needs for one tick's decision.
type Input struct {
	EntryPrice   float64
	CurrentQuote float64
}

// Decision is the outcome of a strategy evaluation.
type Decision struct {
	Trade  bool
	Action string // buy | sell, meaningful only when Trade is true
}

// Hold is the no-trade decision.
var Hold = Decision{}

// Strategy decides, once per pricing tick, whether a position trades and
// in which direction. Decide must be pure with respect to stored state:
// all inputs arrive in Input, all randomness comes from injected sources.
type Strategy interface {
	Decide(input Input) Decision

	// Name returns the strategy identifier as stored on positions.
	Name() string
}

// Rand supplies uniform random numbers in [0, 1). *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
