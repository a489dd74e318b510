package websocket

import (
	"fmt"
	"log/slog"
	"sync"
)

// Message is a live update pushed to subscribers of a topic. Data carries the
// full current document so clients never have to re-fetch.
type Message struct {
	Type   string `json:"type"`
	Topic  string `json:"topic,omitempty"`
	Entity string `json:"entity,omitempty"`
	Action string `json:"action,omitempty"`
	ID     int64  `json:"id,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, id int64, data any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Data:   data,
	}
}

// Topic names.
func ListTopic(listID int64) string   { return fmt.Sprintf("list:%d", listID) }
func PantryTopic(userID int64) string { return fmt.Sprintf("pantry:%d", userID) }

// Hub tracks connected clients and per-topic watchers.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	watchers map[string]map[uint64]func(Message)
	nextID   uint64
	logger   *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		watchers: make(map[string]map[uint64]func(Message)),
		logger:   logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub, drops its subscriptions and
// closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.shutdown()
	}
}

// Watch registers fn to receive every message published on topic. The
// returned function unregisters it and is safe to call more than once.
func (h *Hub) Watch(topic string, fn func(Message)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.watchers[topic] == nil {
		h.watchers[topic] = make(map[uint64]func(Message))
	}
	h.watchers[topic][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.watchers[topic], id)
			if len(h.watchers[topic]) == 0 {
				delete(h.watchers, topic)
			}
		})
	}
}

// Publish delivers msg to every watcher of topic. Watchers run on the
// caller's goroutine, outside the hub lock.
func (h *Hub) Publish(topic string, msg Message) {
	msg.Topic = topic

	h.mu.RLock()
	fns := make([]func(Message), 0, len(h.watchers[topic]))
	for _, fn := range h.watchers[topic] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WatcherCount returns the number of watchers on topic.
func (h *Hub) WatcherCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[topic])
}
