package uisync

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/careline/logging"
)

// WebSocketHub is a Sink that broadcasts state blobs to connected UI clients.
// The most recent blob is replayed to a client on connect so a late-joining
// UI immediately sees current state.
type WebSocketHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	latest   []byte
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewWebSocketHub creates an empty hub.
func NewWebSocketHub(optFns ...func(o *Options)) *WebSocketHub {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WebSocketHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: opts.Logger,
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("uisync.ws.upgrade_failed", "error", err.Error())
		return
	}

	// Replay and registration stay under the lock: the conn must not be
	// visible to Publish broadcasts while the replay write is in flight, since
	// the transport allows only one concurrent writer per conn.
	h.mu.Lock()
	if h.latest != nil {
		if err := conn.WriteMessage(websocket.TextMessage, h.latest); err != nil {
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Reads are discarded; the socket exists to push state outward. The read
	// loop detects client disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

// Publish implements Sink by broadcasting the blob to all connected clients.
func (h *WebSocketHub) Publish(_ context.Context, blob []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = blob
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, blob); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
	return nil
}

// Close disconnects all clients.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *WebSocketHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.clients, conn)
}
