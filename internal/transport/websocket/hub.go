// Package websocket pushes live 2048 session events to spectators.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before new events are dropped.
	broadcastBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only; any origin may watch.
		return true
	},
}

// Message is one frame sent to spectators.
type Message struct {
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
	Data      any    `json:"data,omitempty"`
}

// Client is a single spectator connection.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// Hub tracks spectators per session and fans messages out to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	count      chan countRequest
	done       chan struct{}

	logger *log.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is done. A hub cannot be restarted.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.count:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ServeWS upgrades the request and subscribes it to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of spectators on a session.
// It blocks until Run is serving and reports 0 once it has stopped.
func (h *Hub) ClientCount(sessionID string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{sessionID: sessionID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Publish queues an event for a session. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Publish(sessionID, event string, data any) {
	select {
	case h.broadcast <- &Message{SessionID: sessionID, Event: event, Data: data}:
	default:
		h.logger.Warn("spectator queue full, dropping event", "session", sessionID, "event", event)
	}
}

// SessionObserver returns a resolver observer that publishes every event of
// the given session.
func (h *Hub) SessionObserver(sessionID string) t2048.Observer {
	return t2048.ObserverFunc(func(e t2048.Event) {
		h.Publish(sessionID, string(e.Kind), e)
	})
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Debug("spectator joined", "session", client.sessionID, "clients", len(h.sessions[client.sessionID]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	h.logger.Debug("spectator left", "session", client.sessionID, "clients", len(clients))
}

func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal spectator message", "err", err)
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow reader.
			h.unregisterClient(client)
		}
	}
}

// readPump only drains control frames; spectators cannot send commands.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read", "session", c.sessionID, "err", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck

			// Batch whatever else is queued, one JSON document per line.
			n := len(c.send)
			for range n {
				w.Write([]byte{'\n'}) //nolint:errcheck
				w.Write(<-c.send)     //nolint:errcheck
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
