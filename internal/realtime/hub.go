package realtime

import (
	"sync"

	"peerrent-backend/internal/logger"
)

// Hub maintains the set of active clients keyed by user so that
// notification events can be pushed to every open session of a user.
type Hub struct {
	clients map[*Client]bool

	Register   chan *Client
	Unregister chan *Client

	// Map to quickly find clients by UserID
	userClients map[int32][]*Client

	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		userClients: make(map[int32][]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	count := len(h.userClients[client.UserID])
	h.mutex.Unlock()

	logger.Debug("websocket client connected", "user_id", client.UserID, "connections", count)
}

func (h *Hub) removeClient(client *Client) {
	h.mutex.Lock()
	dropped := h.dropClientLocked(client)
	h.mutex.Unlock()

	if dropped {
		logger.Debug("websocket client disconnected", "user_id", client.UserID)
	}
}

// dropClientLocked removes the client from both registries and closes its
// send channel. Membership in the clients map is the close-once guard: a
// client that was already dropped (slow-consumer eviction racing the read
// pump's unregister) is left alone. Caller must hold the mutex.
func (h *Hub) dropClientLocked(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	close(client.Send)

	userConns := h.userClients[client.UserID]
	for i, conn := range userConns {
		if conn == client {
			h.userClients[client.UserID] = append(userConns[:i], userConns[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	return true
}

// SendToUser sends a message to every active connection of a user.
// Delivery is best effort: a connection with a full send buffer is dropped
// from both registries so a later send can never hit its closed channel.
func (h *Hub) SendToUser(userID int32, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// dropClientLocked mutates the per-user slice, so iterate a copy.
	conns := append([]*Client(nil), h.userClients[userID]...)
	for _, client := range conns {
		select {
		case client.Send <- message:
		default:
			h.dropClientLocked(client)
			logger.Debug("websocket client dropped, send buffer full", "user_id", client.UserID)
		}
	}
}

// IsUserOnline checks if a user has any active WebSocket connection
func (h *Hub) IsUserOnline(userID int32) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.userClients[userID]
	return ok && len(clients) > 0
}
