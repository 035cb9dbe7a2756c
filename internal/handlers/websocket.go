package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/services"
)

const (
	// Time allowed for the client to send its request
	requestWait = 10 * time.Second

	// Write timeout (10 seconds)
	writeTimeout = 10 * time.Second
)

// WebSocketMessage represents a message sent to a generation client
type WebSocketMessage struct {
	Type    string          `json:"type"` // status, level or error
	ID      string          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// WebSocketHandler delivers one generated level per connection. The client
// sends a GenerateRequest, receives a status message and then either the
// level or an error, after which the server closes the connection.
type WebSocketHandler struct {
	levelService *services.LevelService
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Cross-origin clients
// are only accepted in development.
func NewWebSocketHandler(ls *services.LevelService, allowAnyOrigin bool) *WebSocketHandler {
	h := &WebSocketHandler{
		levelService: ls,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	if allowAnyOrigin {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

// Generate handles GET /ws/generate
func (h *WebSocketHandler) Generate(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	if err := conn.SetReadDeadline(time.Now().Add(requestWait)); err != nil {
		return
	}

	var req models.GenerateRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.send(conn, WebSocketMessage{Type: "error", Error: "InvalidRequest", Message: "Invalid request body"})
		h.close(conn, websocket.CloseUnsupportedData)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.send(conn, WebSocketMessage{Type: "error", Error: "ValidationError", Message: err.Error()})
		h.close(conn, websocket.ClosePolicyViolation)
		return
	}

	status, _ := json.Marshal(map[string]string{"state": "generating"})
	if err := h.send(conn, WebSocketMessage{Type: "status", Data: status}); err != nil {
		return
	}

	ctx, cancel := watchDisconnect(r.Context(), conn)
	defer cancel()

	level, err := h.levelService.Generate(ctx, req)
	if err != nil {
		h.send(conn, WebSocketMessage{Type: "error", Error: http.StatusText(statusFor(err)), Message: err.Error()})
		h.close(conn, websocket.CloseNormalClosure)
		return
	}

	data, err := json.Marshal(level)
	if err != nil {
		log.Printf("Error encoding level %s: %v", level.ID(), err)
		h.close(conn, websocket.CloseInternalServerErr)
		return
	}
	if err := h.send(conn, WebSocketMessage{Type: "level", ID: level.ID(), Data: data}); err != nil {
		return
	}
	h.close(conn, websocket.CloseNormalClosure)
}

// watchDisconnect returns a context that is cancelled once the client goes
// away. It becomes the connection's only reader, so the caller must not read
// from conn afterwards.
func watchDisconnect(parent context.Context, conn *websocket.Conn) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		cancel()
		return ctx, cancel
	}
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return ctx, cancel
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg WebSocketMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("WebSocket write failed: %v", err)
		return err
	}
	return nil
}

func (h *WebSocketHandler) close(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout)); err != nil {
		log.Printf("WebSocket close failed: %v", err)
	}
}
