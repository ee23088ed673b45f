package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// roomMessage is a payload addressed to every client of one room
type roomMessage struct {
	roomID string
	data   []byte
}

// Hub maintains the set of active clients per chat room and fans messages out to them
type Hub struct {
	// Registered clients organized by room ID
	clients map[string]map[*Client]struct{}

	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client

	// closed once Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	allowedOrigins []string
	logger         zerolog.Logger
}

// NewHub creates a new Hub instance. An empty origin list or "*" accepts any origin.
func NewHub(logger zerolog.Logger, allowedOrigins []string) *Hub {
	return &Hub{
		clients:        make(map[string]map[*Client]struct{}),
		broadcast:      make(chan roomMessage, 64),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Run handles client registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.closeAll()
			h.logger.Info().Msg("WebSocket hub stopped")
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.roomID]; !ok {
		h.clients[client.roomID] = make(map[*Client]struct{})
	}
	h.clients[client.roomID][client] = struct{}{}

	h.logger.Info().
		Str("roomID", client.roomID).
		Str("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. Callers hold h.mu.
func (h *Hub) removeLocked(client *Client) {
	room, ok := h.clients[client.roomID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.clients, client.roomID)
	}

	h.logger.Info().
		Str("roomID", client.roomID).
		Str("userID", client.userID).
		Msg("Client unregistered")
}

// broadcastMessage delivers to every client of the room. Clients whose buffer
// is full are dropped on the spot; Run is the only reader of h.unregister so it
// must never send to it.
func (h *Hub) broadcastMessage(message roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.roomID]
	if !ok {
		h.logger.Debug().Str("roomID", message.roomID).Msg("No clients in room for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- message.data:
		default:
			h.logger.Warn().
				Str("roomID", client.roomID).
				Str("userID", client.userID).
				Msg("Dropping slow client")
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("roomID", message.roomID).
		Int("clientCount", len(clients)).
		Msg("Message broadcasted to room")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range h.clients {
		for client := range room {
			h.removeLocked(client)
		}
	}
}

// BroadcastToRoom queues data for every client connected to roomID.
// It returns immediately once the hub has stopped.
func (h *Hub) BroadcastToRoom(roomID string, data []byte) {
	select {
	case h.broadcast <- roomMessage{roomID: roomID, data: data}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients for a room
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[roomID])
}

func (h *Hub) addClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) originAllowed(origin string) bool {
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
