package coordinator

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsHub fans out registry snapshots to connected portal browsers
// (SPEC_FULL §4.8). It never mutates the registry — it only reads
// c.reg.List() — so it can't violate the spec §8 invariant that "the API
// never calls remove" nor the broadcaster/API separation of concerns.
type wsHub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *wsHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

type wsRecord struct {
	MAC     string `json:"mac"`
	Alias   string `json:"alias"`
	Active  bool   `json:"active"`
	Current string `json:"current"`
}

func (c *Coordinator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.Errorf("ws: upgrade failed: %v", err)
		return
	}
	c.ws.add(conn)
	defer func() {
		c.ws.remove(conn)
		conn.Close()
	}()

	c.sendSnapshot(conn)

	// Drain incoming frames purely to detect client-initiated close; the
	// portal never sends anything meaningful over this socket.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Coordinator) sendSnapshot(conn *websocket.Conn) {
	data := c.snapshotJSON()
	conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Coordinator) snapshotJSON() []byte {
	recs := c.reg.List()
	out := make([]wsRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, wsRecord{
			MAC:     rec.MAC,
			Alias:   rec.Alias,
			Active:  rec.Active,
			Current: summarize(rec),
		})
	}
	data, _ := json.Marshal(out)
	return data
}

// notifyWS pushes a fresh snapshot to every connected browser.
func (c *Coordinator) notifyWS() {
	c.ws.broadcast(c.snapshotJSON())
}
