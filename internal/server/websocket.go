package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/nawedy/automatiq/internal/audit"
)

// Hub manages WebSocket clients subscribed to audit progress.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) Subscribe(auditID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[auditID] == nil {
		h.clients[auditID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[auditID][conn] = struct{}{}
}

func (h *Hub) Unsubscribe(auditID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[auditID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, auditID)
		}
	}
}

func (h *Hub) Broadcast(auditID int64, ev audit.ProgressEvent) {
	// Copy the subscriber set under the lock; writes happen outside it and
	// may trigger an Unsubscribe.
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[auditID]))
	for conn := range h.clients[auditID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	for _, conn := range conns {
		err := conn.Write(context.Background(), websocket.MessageText, data)
		if err != nil {
			slog.Debug("ws write error", "error", err)
			h.Unsubscribe(auditID, conn)
			conn.Close(websocket.StatusNormalClosure, "")
		}
	}
}

type wsSubscribeMsg struct {
	AuditID int64 `json:"audit_id"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("ws accept error", "error", err)
		return
	}
	defer conn.CloseNow()

	// Read subscribe message
	_, data, err := conn.Read(r.Context())
	if err != nil {
		return
	}

	var msg wsSubscribeMsg
	if err := json.Unmarshal(data, &msg); err != nil || msg.AuditID == 0 {
		conn.Close(websocket.StatusInvalidFramePayloadData, "invalid subscribe message")
		return
	}

	s.hub.Subscribe(msg.AuditID, conn)
	defer s.hub.Unsubscribe(msg.AuditID, conn)

	// Keep connection alive until the client goes away.
	for {
		_, _, err := conn.Read(r.Context())
		if err != nil {
			return
		}
	}
}
