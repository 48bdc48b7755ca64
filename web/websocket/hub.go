// Package websocket provides the hub that fans chat events out to connected
// browser tabs. Clients are keyed by user id so room updates reach every
// open tab of every member.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/util/common"

	"github.com/goccy/go-json"
	"go.uber.org/atomic"
)

// Event names exchanged on the /ws channel.
const (
	EventUpdateListConversations = "updateListConversations"
	EventSetRead                 = "setRead"
	EventMessage                 = "message"
)

// Event is a websocket frame in either direction.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
	Time  int64  `json:"time,omitempty"`
}

// Client represents one websocket connection of a user.
type Client struct {
	ID     string
	UserId int
	Send   chan []byte
}

// Hub maintains the set of active clients, indexed by user id.
type Hub struct {
	clients map[*Client]bool
	byUser  map[int]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	// Connections counts registered clients for the status endpoint and
	// metrics gauge.
	Connections atomic.Int64
}

// NewHub creates a new hub.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[int]map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's main loop; it returns when Stop is called.
func (h *Hub) Run() {
	defer common.Recover("websocket hub")

	for {
		select {
		case <-h.ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
			}
			h.clients = make(map[*Client]bool)
			h.byUser = make(map[int]map[*Client]bool)
			h.mu.Unlock()
			h.Connections.Store(0)
			logger.Info("websocket hub stopped")
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mu.Lock()
			h.clients[client] = true
			if h.byUser[client.UserId] == nil {
				h.byUser[client.UserId] = make(map[*Client]bool)
			}
			h.byUser[client.UserId][client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.Connections.Store(int64(count))
			logger.Debugf("websocket client connected: %s user=%d (total: %d)", client.ID, client.UserId, count)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if peers := h.byUser[client.UserId]; peers != nil {
					delete(peers, client)
					if len(peers) == 0 {
						delete(h.byUser, client.UserId)
					}
				}
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.Connections.Store(int64(count))
			logger.Debugf("websocket client disconnected: %s (total: %d)", client.ID, count)
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// SendToUsers delivers an event to every connection of the given users.
// Slow clients are skipped rather than blocking the sender.
func (h *Hub) SendToUsers(userIds []int, event Event) {
	if event.Time == 0 {
		event.Time = time.Now().Unix()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warning("marshal websocket event failed:", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userId := range userIds {
		for client := range h.byUser[userId] {
			select {
			case client.Send <- payload:
			default:
				logger.Debugf("websocket client %s send buffer full, dropping event", client.ID)
			}
		}
	}
}

// Stop shuts the hub down and closes all client channels.
func (h *Hub) Stop() {
	h.cancel()
}
