// Package broadcast provides the topic-addressed fan-out hub that pushes
// engine events to connected clients.
package broadcast

import (
	"log"
	"sync"

	"global-pick-trade/internal/domain"
)

// DefaultBufferSize is the per-subscriber message buffer. A subscriber
// whose buffer is full misses messages instead of blocking publishers.
const DefaultBufferSize = 64

// Message is the envelope delivered to subscribers.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Broadcaster is the publish side the engines depend on. Delivery is
// best-effort: no persistence, no replay, no acknowledgment.
type Broadcaster interface {
	Publish(topic, event string, payload any)
}

// Subscriber is one connected client's receive end.
type Subscriber struct {
	ID string
	ch chan Message
}

// C returns the subscriber's message channel. It is closed on Unregister.
func (s *Subscriber) C() <-chan Message {
	return s.ch
}

// Hub routes published events to subscribers by topic. Every subscriber
// implicitly receives the global topic; per-user topics require an
// explicit Join. The hub performs no authorization of topic membership;
// that is the transport layer's concern.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	topics map[string]map[string]struct{} // topic -> subscriber IDs
	logger *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]*Subscriber),
		topics: make(map[string]map[string]struct{}),
		logger: logger,
	}
}

// Register adds a subscriber with the given connection ID and returns its
// receive end. Registering an existing ID replaces the old subscriber.
func (h *Hub) Register(id string) *Subscriber {
	sub := &Subscriber{ID: id, ch: make(chan Message, DefaultBufferSize)}

	h.mu.Lock()
	if old, exists := h.subs[id]; exists {
		close(old.ch)
	}
	h.subs[id] = sub
	h.mu.Unlock()

	return sub
}

// Unregister removes a subscriber from the hub and from all joined topics,
// closing its channel. Unknown IDs are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, exists := h.subs[id]
	if !exists {
		return
	}
	delete(h.subs, id)
	for topic, members := range h.topics {
		delete(members, id)
		if len(members) == 0 {
			delete(h.topics, topic)
		}
	}
	close(sub.ch)
}

// Join adds the subscriber to a topic. Idempotent; joining with an
// unregistered ID is ignored.
func (h *Hub) Join(id, topic string) {
	if topic == "" || topic == domain.TopicGlobal {
		return // global is implicit
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.subs[id]; !exists {
		return
	}
	members, exists := h.topics[topic]
	if !exists {
		members = make(map[string]struct{})
		h.topics[topic] = members
	}
	members[id] = struct{}{}
}

// Leave removes the subscriber from a topic. Idempotent.
func (h *Hub) Leave(id, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, exists := h.topics[topic]
	if !exists {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.topics, topic)
	}
}

// Publish delivers {event, payload} to every subscriber of topic. The
// global topic reaches all subscribers. Sends never block: a subscriber
// with a full buffer misses the message. Publishing to a topic with no
// subscribers is a no-op.
//
// Sends happen under the read lock. Subscriber channels are closed only
// under the write lock, so a send can never hit a closed channel.
func (h *Hub) Publish(topic, event string, payload any) {
	msg := Message{Event: event, Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if topic == domain.TopicGlobal {
		for _, sub := range h.subs {
			h.send(sub, topic, msg)
		}
		return
	}
	for id := range h.topics[topic] {
		if sub, exists := h.subs[id]; exists {
			h.send(sub, topic, msg)
		}
	}
}

// send is the non-blocking delivery to one subscriber. Callers hold h.mu.
func (h *Hub) send(sub *Subscriber, topic string, msg Message) {
	select {
	case sub.ch <- msg:
	default:
		if h.logger != nil {
			h.logger.Printf("subscriber %s buffer full, dropping %s on %s", sub.ID, msg.Event, topic)
		}
	}
}

var _ Broadcaster = (*Hub)(nil)
