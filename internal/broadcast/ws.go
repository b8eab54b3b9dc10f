package broadcast

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket transport timeouts.
const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// Client control events.
const (
	cmdJoinRoom  = "join-room"
	cmdLeaveRoom = "leave-room"
)

// clientCommand is an inbound control message from a connected client.
type clientCommand struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

// WSHandler terminates WebSocket connections and bridges them to the hub:
// hub messages flow out as JSON envelopes, client join-room/leave-room
// commands flow in as topic membership changes.
type WSHandler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WebSocket handler for hub.
func NewWSHandler(hub *Hub, logger *log.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Auth and origin policy live in front of this service.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection, registers it with the hub and pumps
// messages until either side closes.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	sub := h.hub.Register(id)
	h.logger.Printf("client connected: %s", id)

	go h.writeLoop(conn, sub)
	h.readLoop(conn, id)
}

// writeLoop pushes hub messages and periodic pings to the connection.
// It exits when the subscriber channel closes on Unregister. Closing the
// connection on exit unblocks readLoop, which handles unregistration.
func (h *WSHandler) writeLoop(conn *websocket.Conn, sub *Subscriber) {
	defer conn.Close()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Printf("write to %s failed: %v", sub.ID, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client commands until the connection drops, then
// unregisters the subscriber from the hub.
func (h *WSHandler) readLoop(conn *websocket.Conn, id string) {
	defer func() {
		h.hub.Unregister(id)
		conn.Close()
		h.logger.Printf("client disconnected: %s", id)
	}()

	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		var cmd clientCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd.Event {
		case cmdJoinRoom:
			h.hub.Join(id, cmd.Room)
			h.logger.Printf("client %s joined room %s", id, cmd.Room)
		case cmdLeaveRoom:
			h.hub.Leave(id, cmd.Room)
		}
	}
}
