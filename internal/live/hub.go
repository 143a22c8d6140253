// Package live pushes item changes to websocket subscribers.
package live

import (
	"context"
	"log/slog"
	"sync"
)

type message struct {
	topic string
	data  []byte
}

// Hub fans messages out to the clients subscribed to a topic. Send channels
// are only closed from the Run goroutine.
type Hub struct {
	topics     map[string]map[*Client]bool
	broadcast  chan message
	unregister chan *Client
	done       chan struct{}
	closed     bool
	mutex      sync.RWMutex
	logger     *slog.Logger
}

// NewHub returns a hub. Call Run to start delivering.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		broadcast:  make(chan message, 1024),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers messages until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for topic, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
				delete(h.topics, topic)
			}
			h.closed = true
			h.mutex.Unlock()
			return

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.topics[msg.topic]))
			for c := range h.topics[msg.topic] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.data:
				default:
					h.logger.Warn("ws client too slow, dropping", "topic", msg.topic)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	clients, ok := h.topics[client.topic]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.topics, client.topic)
	}
	h.logger.Debug("ws unsubscribed", "topic", client.topic, "subscribers", len(clients))
}

// Register subscribes a client to its topic. Once the hub has stopped the
// client is disconnected straight away.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		close(client.send)
		return
	}
	clients, ok := h.topics[client.topic]
	if !ok {
		clients = make(map[*Client]bool)
		h.topics[client.topic] = clients
	}
	clients[client] = true
	h.logger.Debug("ws subscribed", "topic", client.topic, "subscribers", len(clients))
}

// deliver queues data for one registered client. It reports false when the
// client is gone or its buffer is full.
func (h *Hub) deliver(client *Client, data []byte) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.topics[client.topic][client] {
		return false
	}
	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

// Unregister drops a client. Unknown clients are ignored.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues data for every subscriber of topic. Messages are dropped
// when the queue is full.
func (h *Hub) Publish(topic string, data []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{topic: topic, data: data}:
	default:
		h.logger.Warn("ws publish dropped", "topic", topic, "reason", "buffer_full")
	}
}

// Subscribers returns the number of clients subscribed to topic.
func (h *Hub) Subscribers(topic string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
