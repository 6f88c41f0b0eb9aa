// Package ws is the websocket transport: it upgrades connections and pumps
// frames into the hub's dispatcher. All game semantics live behind the hub.
package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"warcamp/server/internal/hub"
)

// Handler upgrades HTTP requests into game sessions.
type Handler struct {
	hub      *hub.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket endpoint for the given hub.
func NewHandler(h *hub.Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The client is served from the same origin in production and
			// from file:// during development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and runs the session's read loop until
// the socket drops.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	sess := h.hub.Connect(conn)
	defer h.hub.Disconnect(sess)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("session read error: %v", err)
			}
			return
		}
		h.hub.HandleMessage(sess, payload)
	}
}
