// Package broadcast fans fresh poll results out to live subscribers and,
// optionally, to Redis pub/sub.
package broadcast

import (
	"log/slog"
	"sync"

	"pollcast/internal/poll/metrics"
	"pollcast/internal/poll/models"
)

const defaultBufferSize = 16

// Relay mirrors updates to an external channel. Enqueue must not block.
type Relay interface {
	Enqueue(update models.ResultsUpdate)
}

// Hub keeps one room of subscribers per poll. Publish never blocks: each
// subscriber has a bounded buffer and the oldest pending update is evicted
// when it is full.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]map[*Subscription]struct{}
	bufferSize int

	relay   Relay
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Hub)

// WithBufferSize sets the per-subscriber buffer. Values below one are ignored.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithRelay mirrors every published update to r.
func WithRelay(r Relay) Option {
	return func(h *Hub) {
		h.relay = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		rooms:      make(map[string]map[*Subscription]struct{}),
		bufferSize: defaultBufferSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Subscription receives the results updates of one poll.
type Subscription struct {
	pollID  string
	updates chan models.ResultsUpdate
	hub     *Hub
	once    sync.Once
}

// PollID returns the poll this subscription watches.
func (s *Subscription) PollID() string {
	return s.pollID
}

// Updates is closed when the subscription ends.
func (s *Subscription) Updates() <-chan models.ResultsUpdate {
	return s.updates
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.Unsubscribe(s)
}

// Subscribe joins the room for pollID.
func (h *Hub) Subscribe(pollID string) *Subscription {
	sub := &Subscription{
		pollID:  pollID,
		updates: make(chan models.ResultsUpdate, h.bufferSize),
		hub:     h,
	}

	h.mu.Lock()
	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*Subscription]struct{})
		h.rooms[pollID] = room
	}
	room[sub] = struct{}{}
	h.mu.Unlock()

	h.metrics.AddSubscribers(1)
	return sub
}

// Unsubscribe leaves the room and closes the update channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		h.mu.Lock()
		if room, ok := h.rooms[sub.pollID]; ok {
			delete(room, sub)
			if len(room) == 0 {
				delete(h.rooms, sub.pollID)
			}
		}
		close(sub.updates)
		h.mu.Unlock()

		h.metrics.AddSubscribers(-1)
	})
}

// Publish delivers update to every subscriber of its poll and to the relay.
func (h *Hub) Publish(update models.ResultsUpdate) {
	dropped := 0

	// Channels are only closed under the write lock, so sends here are safe.
	h.mu.RLock()
	for sub := range h.rooms[update.PollID] {
		if !offer(sub.updates, update) {
			dropped++
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.metrics.AddBroadcastDropped(dropped)
		h.logger.Debug("dropped stale results updates",
			"poll_id", update.PollID,
			"dropped", dropped,
		)
	}
	if h.relay != nil {
		h.relay.Enqueue(update)
	}
}

// SubscriberCount returns the number of subscribers for pollID.
func (h *Hub) SubscriberCount(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[pollID])
}

// offer sends without blocking, evicting the oldest queued value when the
// buffer is full. It reports false when something was evicted.
func offer[T any](ch chan T, v T) bool {
	evicted := false
	for {
		select {
		case ch <- v:
			return !evicted
		default:
		}
		select {
		case <-ch:
			evicted = true
		default:
		}
	}
}
