package hub

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/pkg/models"
	"go.uber.org/zap"
)

// Hub pushes applied snapshots to every connected websocket client
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.Snapshot
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	latest    models.Snapshot
	hasLatest bool
	latestMu  sync.RWMutex

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex

	logger *zap.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.Snapshot, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("hub"),
	}
}

// Run processes registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case snapshot := <-h.broadcast:
			h.broadcastSnapshot(snapshot)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.closeSend()
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Name() string {
	return "websocket-hub"
}

// PublishSnapshot queues a snapshot for broadcast. A full queue drops it.
func (h *Hub) PublishSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	h.latestMu.Lock()
	h.latest = snapshot
	h.hasLatest = true
	h.latestMu.Unlock()

	select {
	case h.broadcast <- snapshot:
	default:
		h.logger.Warn("broadcast buffer full, dropping snapshot")
	}
	return nil
}

// Latest returns the most recent snapshot handed to the hub
func (h *Hub) Latest() (models.Snapshot, bool) {
	h.latestMu.RLock()
	defer h.latestMu.RUnlock()
	return h.latest, h.hasLatest
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.Info("client connected", zap.String("client_id", c.ID), zap.Int("total", count))

	// New clients get the current state right away
	if snapshot, ok := h.Latest(); ok {
		c.TrySend(snapshotMessage(c.FilterSnapshot(snapshot)))
	}
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.closeSend()
		h.logger.Info("client disconnected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
	}
}

func (h *Hub) broadcastSnapshot(snapshot models.Snapshot) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range clients {
		if c.TrySend(snapshotMessage(c.FilterSnapshot(snapshot))) {
			sent++
			continue
		}
		// Client buffer full - they're too slow, disconnect them
		h.logger.Warn("client buffer full, disconnecting", zap.String("client_id", c.ID))
		go h.Unregister(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
}

func snapshotMessage(snapshot models.Snapshot) models.ServerMessage {
	return models.ServerMessage{
		Type:      models.MessageTypeSnapshot,
		Payload:   snapshot,
		Timestamp: time.Now(),
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     h.GetClientCount(),
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("shutting down hub", zap.Int("active_clients", len(h.clients)))

	for c := range h.clients {
		c.closeSend()
		delete(h.clients, c)
	}
}
