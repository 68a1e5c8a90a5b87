package realtime

import (
	"encoding/json"
	"sync"
)

// Hub fans analysis and migration events out to every socket a tenant has
// open. Slow clients drop messages rather than block the broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

type Client struct {
	TenantID int64
	Send     chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: map[int64]map[*Client]struct{}{}}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.TenantID] == nil {
		h.clients[client.TenantID] = map[*Client]struct{}{}
	}
	h.clients[client.TenantID][client] = struct{}{}
}

// Unregister is safe to call from both pumps; only the first call for a
// client closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.TenantID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.TenantID)
	}
	close(client.Send)
}

func (h *Hub) Broadcast(tenantID int64, payload any) {
	message, err := json.Marshal(payload)
	if err != nil {
		return
	}

	// Sends never block, so the read lock is held for the whole fan-out.
	// Unregister needs the write lock, which keeps a channel from being
	// closed while a send to it is in flight.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[tenantID] {
		select {
		case client.Send <- message:
		default:
		}
	}
}
