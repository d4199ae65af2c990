package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadMessage is sent to browsers via WebSocket.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	File  string            `json:"file,omitempty"`
}

// ReloadServer manages WebSocket connections for live reload.
type ReloadServer struct {
	log      *slog.Logger
	mu       sync.RWMutex
	clients  map[string]*websocket.Conn
	upgrader websocket.Upgrader
}

// NewReloadServer creates a new reload server.
func NewReloadServer(log *slog.Logger) *ReloadServer {
	if log == nil {
		log = slog.Default()
	}
	return &ReloadServer{
		log:     log,
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev server only; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.clients[id] = conn
	r.mu.Unlock()
	r.log.Debug("reload client connected", "client", id)

	// Block until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.mu.Lock()
	delete(r.clients, id)
	r.mu.Unlock()
	conn.Close()
	r.log.Debug("reload client disconnected", "client", id)
}

// NotifyReload sends a full page reload message to all clients.
func (r *ReloadServer) NotifyReload(file string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeFull, File: file})
}

// NotifyError sends a render error to all clients.
func (r *ReloadServer) NotifyError(errMsg string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeError, Error: errMsg})
}

// ClearError clears the error overlay on all clients.
func (r *ReloadServer) ClearError() {
	r.broadcast(ReloadMessage{Type: ReloadTypeClear})
}

func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(r.clients))
	for id, c := range r.clients {
		conns[id] = c
	}
	r.mu.RUnlock()

	for id, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			r.mu.Lock()
			delete(r.clients, id)
			r.mu.Unlock()
			conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.clients {
		conn.Close()
		delete(r.clients, id)
	}
}

// ReloadScript is injected into served HTML pages in development so
// the browser reconnects and reloads when sources change.
const ReloadScript = `
<script>
(function() {
    'use strict';

    var delay = 1000;
    var maxDelay = 30000;

    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(proto + '//' + location.host + '/_indulgent/reload');

        ws.onopen = function() {
            delay = 1000;
            clearOverlay();
        };

        ws.onmessage = function(e) {
            var msg;
            try { msg = JSON.parse(e.data); } catch (err) { return; }
            if (msg.type === 'reload') {
                location.reload();
            } else if (msg.type === 'error') {
                showOverlay(msg.error);
            } else if (msg.type === 'clear') {
                clearOverlay();
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, maxDelay);
                connect();
            }, delay);
        };

        ws.onerror = function() { ws.close(); };
    }

    function showOverlay(text) {
        clearOverlay();
        var el = document.createElement('pre');
        el.id = 'indulgent-error-overlay';
        el.style.cssText = 'position:fixed;inset:0;margin:0;background:rgba(0,0,0,.9);color:#ff5555;font:14px monospace;padding:24px;overflow:auto;z-index:999999;white-space:pre-wrap;';
        el.textContent = 'Render error\n\n' + text;
        document.body.appendChild(el);
    }

    function clearOverlay() {
        var el = document.getElementById('indulgent-error-overlay');
        if (el) el.remove();
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
