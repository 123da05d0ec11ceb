package relay

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 1 << 16
)

// Client is one endpoint's WebSocket connection into a relay Channel.
// Adapted from the teacher's Client (internal/websocket/client.go):
// ReadPump/WritePump with the same ping/pong keepalive cadence, but
// relaying opaque frames instead of decoding a chat message envelope and
// applying a token-bucket rate limiter (a demo relay has no per-user
// quota to enforce; the adversarial behavior it models lives in the
// Transport, not the client).
type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	ChannelID  string
	EndpointID string
}

// NewClient wires conn into hub under (channelID, endpointID).
func NewClient(hub *Hub, conn *websocket.Conn, channelID, endpointID string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, 64),
		ChannelID:  channelID,
		EndpointID: endpointID,
	}
}

// Join registers c with its hub, blocking until accepted or rejected
// (e.g. ErrChannelFull).
func (c *Client) Join() error {
	result := make(chan error, 1)
	c.hub.register <- &registration{client: c, result: result}
	return <-result
}

// ReadPump reads frames off the WebSocket connection and forwards them to
// the hub for relaying, identical in structure to the teacher's
// ReadPump (internal/websocket/client.go): a read loop with pong-deadline
// keepalive, exiting (and triggering unregistration) on any read error.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: unexpected close for %s/%s: %v", c.ChannelID, c.EndpointID, err)
			}
			return
		}
		c.hub.frame <- incomingFrame{from: c, data: data}
	}
}

// WritePump drains c.send to the WebSocket connection and sends periodic
// pings, identical in structure to the teacher's WritePump
// (internal/websocket/client.go).
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
