package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// A device that falls this far behind is dropped rather than
	// queued; it refetches the plan window on reconnect anyway.
	outboxSize   = 8
	pingInterval = 45 * time.Second
)

// Client is one connected device (a phone or kitchen tablet viewing
// the calendar).
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	outbox chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
	}
}

// Run registers the client with the hub and pumps the connection until
// it closes, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

// readLoop discards inbound frames. The sync channel is one-way; a
// read error is how we learn the device went away.
func (c *Client) readLoop(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.outbox:
			if !ok {
				// Hub closed the channel on unregister.
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
