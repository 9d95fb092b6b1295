package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/agencypack/blog-backend/internal/notification"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "blog:events"

// Event is one real-time message pushed to WebSocket subscribers
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket subscribers and broadcasts blog events to all
// of them, e.g. moderation dashboards watching comment activity.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub. redisClient may be nil; events then stay
// instance-local.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Event, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Broadcast sends an event to all subscribers (local + Redis publish
// for multi-instance setups)
func (h *Hub) Broadcast(event *Event) {
	h.broadcast <- event

	if h.redisClient != nil {
		data, err := json.Marshal(event)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// subscribeRedis relays events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
				// Local broadcast only (don't re-publish to Redis)
				h.broadcast <- &event
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

// NotificationListener adapts the hub into a notification fan-out
// listener: every dispatched notification is pushed to all subscribers.
type NotificationListener struct {
	Hub *Hub
}

// Handle implements notification.Listener
func (l NotificationListener) Handle(_ context.Context, n notification.Notification) error {
	l.Hub.Broadcast(&Event{Type: string(n.Kind), Payload: n.Payload})
	return nil
}
