package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
)

// Hub tracks live connections and which room each one currently belongs to.
// Room membership is not maintained incrementally: every roster notification
// carries the authoritative member list, so the hub rebuilds the room's client
// set from it. That keeps the hub a pure view over session state and immune to
// ordering races between joins, leaves and timer-driven evictions.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client            // connection id -> client
	rooms    map[string]map[string]*Client // pin -> connection id -> client
	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin header.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c.ID)
	for pin, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, pin)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RosterChanged rebuilds the room's client set from the snapshot and pushes
// the fresh roster to everyone still in it.
func (h *Hub) RosterChanged(room domain.Room) {
	msg := NewRoomData(room)

	h.mu.Lock()
	members := make(map[string]*Client, len(room.Members))
	for _, m := range room.Members {
		if c, ok := h.clients[m.ConnectionID]; ok {
			members[c.ID] = c
		}
	}
	if len(members) == 0 {
		delete(h.rooms, room.PIN)
	} else {
		h.rooms[room.PIN] = members
	}
	h.mu.Unlock()

	for _, c := range members {
		c.Send(msg)
	}
}

// RoomDeleted tells every connection still mapped to the pin that the room is
// gone and drops the mapping.
func (h *Hub) RoomDeleted(pin string) {
	h.mu.Lock()
	members := h.rooms[pin]
	delete(h.rooms, pin)
	h.mu.Unlock()

	msg := NewRoomDeleted(pin)
	for _, c := range members {
		c.Send(msg)
	}
}

// BroadcastToRoom fans a message out to every connection in the room. Returns
// how many clients it reached.
func (h *Hub) BroadcastToRoom(pin string, msg *WSMessage) int {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[pin]))
	for _, c := range h.rooms[pin] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.Send(msg)
	}
	return len(members)
}
