package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Time between pings; must be less than pongWait
	pingPeriod = 54 * time.Second

	// Largest inbound frame accepted
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// MessageHandler receives inbound frames and the end of each connection
type MessageHandler interface {
	HandleMessage(id model.ParticipantID, frame []byte)
	Disconnect(id model.ParticipantID)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one open socket
type Client struct {
	id          model.ParticipantID
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	closeOnce   sync.Once
	connectedAt time.Time
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Handler returns an http.HandlerFunc that upgrades requests and serves them
func Handler(hub *Hub, handler MessageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, handler)
	}
}

// ServeWS upgrades the request and pumps frames until the socket closes.
// Each socket gets a fresh identity, which is also its participant ID.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, handler MessageHandler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		id:          model.ParticipantID(uuid.NewString()),
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
	if !hub.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(handler)
}

// readPump feeds inbound text frames to the handler. The client is
// unregistered before the handler hears about the disconnect, so nothing
// triggered by the disconnect is queued for this socket.
func (c *Client) readPump(handler MessageHandler) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
		handler.Disconnect(c.id)
		c.hub.logger.Info("ws connection closed",
			slog.String("connection_id", string(c.id)),
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warn("ws read error",
					slog.String("connection_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}
		if messageType == websocket.TextMessage {
			handler.HandleMessage(c.id, frame)
		}
	}
}

// writePump drains the send buffer to the socket and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
