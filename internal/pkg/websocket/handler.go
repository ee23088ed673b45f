package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// ErrHubStopped is returned when a connection arrives after shutdown began
var ErrHubStopped = errors.New("websocket hub stopped")

// ServeRoom upgrades the request and attaches the connection to roomID on
// behalf of userID. Authentication and room membership must be checked by the
// caller before the upgrade.
func (h *Hub) ServeRoom(w http.ResponseWriter, r *http.Request, roomID, userID string, onMessage IncomingFunc) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.originAllowed(r.Header.Get("Origin"))
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		userID:    userID,
		roomID:    roomID,
		onMessage: onMessage,
		logger:    h.logger.With().Str("roomID", roomID).Str("userID", userID).Logger(),
	}

	if !h.addClient(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return ErrHubStopped
	}

	// the request context ends when the handler returns, the connection outlives it
	ctx := context.WithoutCancel(r.Context())

	go client.writePump()
	go client.readPump(ctx)
	return nil
}
