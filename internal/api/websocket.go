package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal caps concurrent WebSocket connections.
	MaxWSConnectionsTotal = 200

	// MaxWSConnectionsPerIP caps WebSocket connections per IP.
	MaxWSConnectionsPerIP = 4

	// snapshotPushInterval is the cadence of state pushes to clients.
	snapshotPushInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP.
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// wsInputMessage is the client-to-server message shape: pointer moves
// and visibility changes arrive over the socket so steering does not
// pay HTTP round-trip overhead.
type wsInputMessage struct {
	Type   string  `json:"type"` // "pointer" | "visibility"
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Hidden bool    `json:"hidden"`
}

// WebSocketHub manages connections and pushes session snapshots.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	engine    EngineInterface
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub with connection limiting.
func NewWebSocketHub(engine EngineInterface) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		engine:     engine,
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run starts the hub loop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range dead {
				h.unregisterConn(conn)
			}
			IncrementWSMessages()
		}
	}
}

func (h *WebSocketHub) unregisterConn(conn *websocket.Conn) {
	h.mu.Lock()
	if client, ok := h.clients[conn]; ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Broadcast queues a message for every connected client, dropping it
// under backpressure rather than blocking the caller.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest snapshot to clients at a fixed
// cadence and refreshes the simulation gauges.
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(snapshotPushInterval)

	go func() {
		for range ticker.C {
			snap := h.engine.Snapshot()
			if snap.Active {
				UpdateSimulationGauges(len(snap.Projectiles), snap.Stage, snap.DisplayScore)
			} else {
				UpdateSimulationGauges(0, 0, 0)
			}

			if h.ClientCount() == 0 {
				continue
			}
			h.Broadcast("session:snapshot", snap)
		}
	}()
}

// HandleWebSocket upgrades a connection, enforcing total and per-IP
// connection caps, then feeds client input into the engine.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	totalConnections := len(h.clients)
	h.mu.RUnlock()

	if totalConnections >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket rejected: total limit reached (%d)", totalConnections)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	go func() {
		defer func() {
			h.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var msg wsInputMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}

			switch msg.Type {
			case "pointer":
				h.engine.SetPointerTarget(msg.X, msg.Y)
			case "visibility":
				h.engine.SetVisibility(msg.Hidden)
			}
		}
	}()
}
