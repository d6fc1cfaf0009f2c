package render

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"dns-ledger-sim/logger"
	"dns-ledger-sim/simulation"

	"go.uber.org/zap"
)

// Hub broadcasts every snapshot as JSON to connected websocket clients.
type Hub struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	register  chan *websocket.Conn
	remove    chan *websocket.Conn
	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	latest []byte
}

// NewHub creates a Hub and starts its broadcast goroutine.
func NewHub() *Hub {
	hub := &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		register:  make(chan *websocket.Conn),
		remove:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 16),
		done:      make(chan struct{}),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			for conn := range h.clients {
				conn.Close()
			}
			return
		case conn := <-h.register:
			h.clients[conn] = true
			if latest := h.Latest(); latest != nil {
				h.send(conn, latest)
			}
		case conn := <-h.remove:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case msg := <-h.broadcast:
			for conn := range h.clients {
				h.send(conn, msg)
			}
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, msg []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		logger.Logger.Warn("Failed to send snapshot to websocket client", zap.Error(err))
		delete(h.clients, conn)
		conn.Close()
	}
}

// Draw queues s for broadcast. Frames are dropped when clients fall behind.
func (h *Hub) Draw(s simulation.Snapshot) {
	msg, err := json.Marshal(s)
	if err != nil {
		logger.Logger.Error("Failed to encode snapshot", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.latest = msg
	h.mu.Unlock()

	select {
	case h.broadcast <- msg:
	default:
	}
}

// Latest returns the most recent encoded snapshot.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Handle upgrades the request and streams snapshots until the client leaves.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.remove <- conn:
				case <-h.done:
				}
				return
			}
		}
	}()
}

// Close disconnects every client. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
