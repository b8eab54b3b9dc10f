package engine

import (
	"io"
	"log"
	"sync"

	"global-pick-trade/internal/domain"
)

// publishedEvent captures one hub publish for assertions.
type publishedEvent struct {
	Topic   string
	Event   string
	Payload any
}

// recorderHub records publishes instead of delivering them.
type recorderHub struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (h *recorderHub) Publish(topic, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{Topic: topic, Event: event, Payload: payload})
}

func (h *recorderHub) byEvent(name string) []publishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var result []publishedEvent
	for _, e := range h.events {
		if e.Event == name {
			result = append(result, e)
		}
	}
	return result
}

// stubOracle returns fixed quotes per coin, zero for anything else.
type stubOracle map[domain.Coin]float64

func (o stubOracle) Quote(coin domain.Coin) float64 {
	return o[coin]
}

// scriptedRand returns a fixed sequence of draws, then zeros.
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

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
