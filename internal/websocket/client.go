package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeTimeout bounds a single write to the peer
	writeTimeout = 10 * time.Second

	// pongTimeout is how long a connection may stay silent before the
	// read side gives up on it
	pongTimeout = 60 * time.Second

	// pingInterval must stay under pongTimeout so the peer always has a
	// ping to answer before the deadline expires
	pingInterval = (pongTimeout * 9) / 10

	// readLimit caps inbound frames; the event stream is one-way so
	// anything beyond control traffic is unexpected
	readLimit = 512
)

// Client is one subscribed review UI connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

// NewClient wraps an upgraded connection for the hub
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logger,
	}
}

// ReadPump consumes inbound frames until the peer goes away. Incoming
// data is discarded; reading only services pongs and detects closure.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) && c.logger != nil {
			c.logger.Error("websocket read error", slog.Any("error", err))
		}
		return
	}
}

// WritePump forwards hub events to the peer and keeps the connection
// alive with periodic pings. It exits when the hub closes the send
// channel or any write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
