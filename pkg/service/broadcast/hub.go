package broadcast

import (
	"sync"

	"github.com/finport-lab/riskcast/pkg/domain/interfaces"
	"github.com/finport-lab/riskcast/pkg/domain/model"
)

// defaultBuffer is the per-subscriber channel capacity. A subscriber
// that falls more than this many events behind starts losing events.
const defaultBuffer = 16

// Hub is a single shared publish/subscribe channel for scenario
// progress events. Delivery is best-effort and non-blocking: a slow or
// gone subscriber never blocks the publisher or other subscribers, and
// there is no backlog or replay.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan *model.ProgressEvent
	nextID      int
	buffer      int
	closed      bool
}

var _ interfaces.ProgressPublisher = &Hub{}

type Option func(*Hub)

// WithBuffer overrides the per-subscriber channel capacity
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// New creates a new broadcast hub
func New(opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[int]chan *model.ProgressEvent),
		buffer:      defaultBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new observer. The returned cancel function
// removes the subscription and closes the channel; it is safe to call
// more than once.
func (h *Hub) Subscribe() (<-chan *model.ProgressEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan *model.ProgressEvent, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish delivers the event to every currently subscribed observer.
// Events for subscribers with a full buffer are dropped.
func (h *Hub) Publish(event *model.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not keeping up. Drop, never block.
		}
	}
}

// Close shuts down the hub and closes all subscriber channels
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
