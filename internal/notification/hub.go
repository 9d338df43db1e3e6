package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// MessageType represents the type of a pushed message
type MessageType string

const (
	MessageTypeNotification MessageType = "notification"
	MessageTypeNavigate     MessageType = "navigate"
	MessageTypeConnected    MessageType = "connected"
)

// Message is the envelope written to form event sockets
type Message struct {
	Type      MessageType `json:"type"`
	FormID    string      `json:"formId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage creates a new message
func NewMessage(msgType MessageType, payload interface{}) *Message {
	return &Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// HubMetrics holds hub counters
type HubMetrics struct {
	TotalConnections  int64
	ActiveConnections int64
	TotalMessages     int64
	DroppedMessages   int64
}

// Hub fans messages out to the sockets watching each form
type Hub struct {
	// Clients by form ID
	forms map[string]map[*Client]bool

	publish    chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mutex   sync.RWMutex
	stats   HubMetrics
	logger  *zap.Logger
	metrics *observability.MetricsProvider
}

// NewHub creates a new hub
func NewHub(logger *zap.Logger, metrics *observability.MetricsProvider) *Hub {
	return &Hub{
		forms:      make(map[string]map[*Client]bool),
		publish:    make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    metrics,
	}
}

// Run processes hub events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.publish:
			h.handlePublish(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.forms[client.FormID]; !ok {
		h.forms[client.FormID] = make(map[*Client]bool)
	}
	h.forms[client.FormID][client] = true

	h.stats.TotalConnections++
	h.stats.ActiveConnections++
	h.metrics.IncrementSockets(context.Background())

	h.logger.Debug("Form socket registered",
		zap.String("client_id", client.ID),
		zap.String("form_id", client.FormID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.forms[client.FormID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	if len(clients) == 0 {
		delete(h.forms, client.FormID)
	}
	close(client.send)

	h.stats.ActiveConnections--
	h.metrics.DecrementSockets(context.Background())

	h.logger.Debug("Form socket unregistered",
		zap.String("client_id", client.ID),
		zap.String("form_id", client.FormID),
	)
}

func (h *Hub) handlePublish(message *Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.forms[message.FormID] {
		select {
		case client.send <- message:
			h.stats.TotalMessages++
		default:
			h.stats.DroppedMessages++
			h.logger.Warn("Form socket send buffer full",
				zap.String("client_id", client.ID),
				zap.String("form_id", message.FormID),
			)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for formID, clients := range h.forms {
		for client := range clients {
			close(client.send)
			h.metrics.DecrementSockets(context.Background())
		}
		delete(h.forms, formID)
	}
	h.stats.ActiveConnections = 0
}

// Publish queues a message for every socket watching formID.
// Messages published after the hub stopped are dropped.
func (h *Hub) Publish(formID string, message *Message) {
	message.FormID = formID
	select {
	case h.publish <- message:
	case <-h.done:
	}
}

// Register attaches a client to its form
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister detaches a client from its form
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of sockets watching formID
func (h *Hub) ClientCount(formID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.forms[formID])
}

// GetMetrics returns hub counters
func (h *Hub) GetMetrics() HubMetrics {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.stats
}
