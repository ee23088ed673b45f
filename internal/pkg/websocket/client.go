package websocket

import (
	"bytes"
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 16 * 1024

	// Outbound messages buffered per client before it counts as slow
	sendBufferSize = 256
)

// IncomingFunc handles a frame received from a client
type IncomingFunc func(ctx context.Context, client *Client, payload []byte)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	userID string
	roomID string

	onMessage IncomingFunc
	logger    zerolog.Logger
}

// UserID returns the authenticated user behind the connection
func (c *Client) UserID() string { return c.userID }

// RoomID returns the room the connection is attached to
func (c *Client) RoomID() string { return c.roomID }

// Reply sends data to this client only. It reports false when the client is
// gone or its buffer is full.
func (c *Client) Reply(data []byte) (sent bool) {
	defer func() {
		// send is closed by the hub when the client is unregistered
		if recover() != nil {
			sent = false
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// readPump pumps messages from the websocket connection to the message handler
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				c.logger.Info().Msg("WebSocket closed normally")
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			default:
				c.logger.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}

		message = bytes.TrimSpace(message)
		if len(message) == 0 || c.onMessage == nil {
			continue
		}
		c.onMessage(ctx, c, message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
// Every payload goes out as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
