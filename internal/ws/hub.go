package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event is the message written to subscribers.
type Event struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Hub keeps one room of clients per topic and fans published events out to
// the room.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	log logrus.FieldLogger
	mu  sync.RWMutex
}

// NewHub creates a Hub. Call Run in its own goroutine before publishing.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		log:        log,
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.topic] == nil {
				h.rooms[client.topic] = make(map[*Client]bool)
			}
			h.rooms[client.topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.log.WithError(err).WithField("type", event.Type).Error("marshal event")
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Topic] {
				select {
				case client.send <- message:
				default:
					// slow consumer
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes client from its room and closes its send channel. h.mu must be held.
func (h *Hub) drop(client *Client) {
	clients, ok := h.rooms[client.topic]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.topic)
	}
}

// Publish queues payload for every subscriber of topic. It never blocks: when
// the queue is full the event is dropped and logged.
func (h *Hub) Publish(topic, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", eventType).Error("marshal event payload")
		return
	}

	select {
	case h.broadcast <- Event{Type: eventType, Topic: topic, Payload: data}:
	default:
		h.log.WithFields(logrus.Fields{"topic": topic, "type": eventType}).Warn("event queue full, dropping event")
	}
}

// Subscribers returns the number of clients listening on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[topic])
}
