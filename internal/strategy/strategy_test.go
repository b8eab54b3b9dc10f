package strategy

import (
	"testing"

	"global-pick-trade/internal/domain"
)

// scriptedRand returns a fixed sequence of draws.
type scriptedRand struct {
	draws []float64
	pos   int
}

func (r *scriptedRand) Float64() float64 {
	if r.pos >= len(r.draws) {
		return 0
	}
	v := r.draws[r.pos]
	r.pos++
	return v
}

func TestTrendStrategy_BuysAboveThreshold(t *testing.T) {
	s := NewTrendStrategy()

	d := s.Decide(Input{EntryPrice: 100, CurrentQuote: 103})
	if !d.Trade {
		t.Fatal("Expected trade at 3% above entry")
	}
	if d.Action != domain.ActionBuy {
		t.Errorf("Expected buy, got %s", d.Action)
	}
}

func TestTrendStrategy_HoldsBelowThreshold(t *testing.T) {
	s := NewTrendStrategy()

	cases := []float64{101, 102, 100, 95}
	for _, quote := range cases {
		if d := s.Decide(Input{EntryPrice: 100, CurrentQuote: quote}); d.Trade {
			t.Errorf("Unexpected trade at quote %f", quote)
		}
	}
}

func TestScalpingStrategy_TradeDraw(t *testing.T) {
	// First draw below probability: trade. Second draw >= 0.5: buy.
	s := NewScalpingStrategy(&scriptedRand{draws: []float64{0.1, 0.9}})
	d := s.Decide(Input{})
	if !d.Trade || d.Action != domain.ActionBuy {
		t.Errorf("Expected buy trade, got %+v", d)
	}

	// First draw below probability, second below 0.5: sell.
	s = NewScalpingStrategy(&scriptedRand{draws: []float64{0.1, 0.2}})
	d = s.Decide(Input{})
	if !d.Trade || d.Action != domain.ActionSell {
		t.Errorf("Expected sell trade, got %+v", d)
	}

	// First draw at/above probability: hold, direction never drawn.
	r := &scriptedRand{draws: []float64{0.3}}
	s = NewScalpingStrategy(r)
	if d := s.Decide(Input{}); d.Trade {
		t.Errorf("Expected hold, got %+v", d)
	}
	if r.pos != 1 {
		t.Errorf("Expected exactly one draw on hold, got %d", r.pos)
	}
}

func TestFromName_UnknownNeverTrades(t *testing.T) {
	s := FromName("martingale", &scriptedRand{draws: []float64{0, 0}})

	if s.Name() != "martingale" {
		t.Errorf("Name mismatch: %s", s.Name())
	}
	for i := 0; i < 10; i++ {
		if d := s.Decide(Input{EntryPrice: 100, CurrentQuote: 1000}); d.Trade {
			t.Fatal("Unknown strategy must never trade")
		}
	}
}

func TestFromName_KnownStrategies(t *testing.T) {
	if _, ok := FromName(domain.StrategyScalping, &scriptedRand{}).(*ScalpingStrategy); !ok {
		t.Error("Expected ScalpingStrategy")
	}
	if _, ok := FromName(domain.StrategyTrend, nil).(*TrendStrategy); !ok {
		t.Error("Expected TrendStrategy")
	}
}
