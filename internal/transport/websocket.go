// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"vumeter/internal/log"
	"vumeter/internal/meta"
)

// WebSocketTransport serves a /ws endpoint broadcasting snapshots to all
// connected clients, and a /state endpoint accepting playback pushes
// from the player. Slow clients are dropped rather than allowed to
// stall the broadcast loop.
type WebSocketTransport struct {
	addr      string
	store     *meta.Store
	logger    *log.Logger
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	server    *http.Server
}

// NewWebSocketTransport starts the hub listening on addr. store may be
// nil, which disables state ingestion.
func NewWebSocketTransport(addr string, store *meta.Store, logger *log.Logger) *WebSocketTransport {
	if logger == nil {
		logger = log.Discard()
	}
	wst := &WebSocketTransport{
		addr:   addr,
		store:  store,
		logger: logger.Component("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
	}
	wst.start()
	return wst
}

func (wst *WebSocketTransport) start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wst.handleWebSocket)
	if wst.store != nil {
		mux.HandleFunc("/state", wst.handleState)
	}
	wst.server = &http.Server{Addr: wst.addr, Handler: mux}

	go func() {
		wst.logger.Infof("listening on %s", wst.addr)
		if err := wst.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			wst.logger.Errorf("server error: %v", err)
		}
	}()
	go wst.handleBroadcasts()
}

func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		wst.logger.Errorf("upgrade error: %v", err)
		return
	}

	wst.clientsMu.Lock()
	wst.clients[conn] = true
	n := len(wst.clients)
	wst.clientsMu.Unlock()
	wst.logger.Infof("client connected, total: %d", n)

	// Clients never send payloads; the read loop exists to observe close.
	go func() {
		_, _, err := conn.ReadMessage()
		if err != nil {
			wst.clientsMu.Lock()
			delete(wst.clients, conn)
			n := len(wst.clients)
			wst.clientsMu.Unlock()
			conn.Close()
			wst.logger.Infof("client disconnected, total: %d", n)
		}
	}()
}

// handleState ingests one pushed playback snapshot (POST, JSON body).
func (wst *WebSocketTransport) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var push StatePush
	if err := json.NewDecoder(r.Body).Decode(&push); err != nil {
		wst.logger.Warnf("bad state push: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wst.store.SetState(push.State())
	w.WriteHeader(http.StatusNoContent)
}

func (wst *WebSocketTransport) handleBroadcasts() {
	for data := range wst.broadcast {
		wst.clientsMu.Lock()
		for client := range wst.clients {
			if err := client.WriteJSON(data); err != nil {
				wst.logger.Debugf("dropping client: %v", err)
				client.Close()
				delete(wst.clients, client)
			}
		}
		wst.clientsMu.Unlock()
	}
}

// Send queues data for broadcast. A full queue drops the snapshot, the
// next one will carry fresher state anyway.
func (wst *WebSocketTransport) Send(data any) error {
	select {
	case wst.broadcast <- data:
	default:
	}
	return nil
}

// Close disconnects all clients and shuts the server down.
func (wst *WebSocketTransport) Close() error {
	wst.clientsMu.Lock()
	for client := range wst.clients {
		client.Close()
	}
	wst.clients = make(map[*websocket.Conn]bool)
	wst.clientsMu.Unlock()

	if wst.server != nil {
		return wst.server.Close()
	}
	return nil
}

var _ Transport = (*WebSocketTransport)(nil)
